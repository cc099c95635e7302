package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/zintix-labs/droplab"
	"github.com/zintix-labs/droplab/sdk/gen"
	"github.com/zintix-labs/droplab/server/logger"
	"github.com/zintix-labs/droplab/setting"
	"github.com/zintix-labs/droplab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	config    string
	in        string
	width     int
	worker    int
	stats     bool
	format    string
	progress  bool
	gen       int
	genLen    int
	mix       string
	seed      uint64
	logMode   string
	pprofmode string
}

// maxLine 單行輸入上限
const maxLine = 16 << 20

func bindVar() {
	flag.StringVar(&cfg.config, "config", "", "setting file (.yaml/.yml/.json)")
	flag.StringVar(&cfg.in, "in", "", "input file, default stdin")
	flag.IntVar(&cfg.width, "width", 0, "grid width, overrides setting")
	flag.IntVar(&cfg.worker, "worker", 0, "number of workers, overrides setting")
	flag.BoolVar(&cfg.stats, "stats", false, "write batch report to stderr")
	flag.StringVar(&cfg.format, "format", "", "report format: text|json|yaml")
	flag.BoolVar(&cfg.progress, "progress", false, "show progress bar")
	flag.IntVar(&cfg.gen, "gen", 0, "generate N random lines instead of reading input")
	flag.IntVar(&cfg.genLen, "len", 64, "max drops per generated line")
	flag.StringVar(&cfg.mix, "mix", "", "piece weights for -gen, e.g. I=3,Q=1")
	flag.Uint64Var(&cfg.seed, "seed", 0, "seed for -gen, 0 means random")
	flag.StringVar(&cfg.logMode, "log-mode", "", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs, block, mutex")

	flag.Parse()

	if cfg.seed == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			log.Fatal(err)
		}
		cfg.seed = binary.LittleEndian.Uint64(b[:]) | 1
	}
}

// execute 依參數選擇串流或批次模式
func execute() {
	ls := cfg.setting()
	lab, err := droplab.New(ls)
	if err != nil {
		log.Fatal(err)
	}
	defer lab.Close()
	if cfg.logMode != "" {
		mode, err := logger.ParseLogMode(cfg.logMode)
		if err != nil {
			log.Fatal(err)
		}
		lab.WithLogger(logger.NewDefaultLogger(mode))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 單 worker 又不需要統計：逐行串流，記憶體與輸入長度無關
	if ls.Workers == 1 && !cfg.stats && cfg.gen == 0 {
		in, closeIn := cfg.input()
		defer closeIn()
		if err := lab.Run(ctx, in, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	records := cfg.records(ls.Width)
	results, report, used, err := lab.Batch(ctx, records, ls.Workers, cfg.progress)
	if err != nil {
		log.Fatal(err)
	}
	out := bufio.NewWriter(os.Stdout)
	for i := range results {
		if results[i].OK() {
			out.WriteString(strconv.Itoa(results[i].Height))
		} else {
			out.WriteString("error: " + results[i].Err.Error())
		}
		out.WriteByte('\n')
	}
	if err := out.Flush(); err != nil {
		log.Fatal(err)
	}
	if cfg.stats {
		cfg.report(report, used, ls.ReportFormat)
	}
}

func (cfg *config) setting() *setting.LabSetting {
	var ls *setting.LabSetting
	if cfg.config != "" {
		loaded, err := setting.Load(os.DirFS(filepath.Dir(cfg.config)), filepath.Base(cfg.config))
		if err != nil {
			log.Fatal(err)
		}
		ls = loaded
	} else {
		ls = setting.Default()
	}
	if cfg.width < 0 || cfg.worker < 0 || cfg.gen < 0 || cfg.genLen < 0 {
		log.Fatal("value err : width / worker / gen / len must >= 0")
	}
	if cfg.width > 0 {
		ls.Width = cfg.width
	}
	if cfg.worker > 0 {
		ls.Workers = cfg.worker
	}
	if cfg.format != "" {
		ls.ReportFormat = cfg.format
	}
	if err := ls.Reinit(); err != nil {
		log.Fatal(err)
	}
	return ls
}

func (cfg *config) input() (io.Reader, func()) {
	if cfg.in == "" || cfg.in == "-" {
		return os.Stdin, func() {}
	}
	f, err := os.Open(cfg.in)
	if err != nil {
		log.Fatal(err)
	}
	return f, func() { _ = f.Close() }
}

// records 讀入全部輸入，或以 -gen 產生隨機輸入
func (cfg *config) records(width int) []string {
	if cfg.gen > 0 {
		g, err := gen.NewRecordGenerator(cfg.seed, width)
		if err != nil {
			log.Fatal(err)
		}
		if cfg.mix != "" {
			mix, err := gen.ParseMix(cfg.mix)
			if err != nil {
				log.Fatal(err)
			}
			if err := g.SetMix(mix); err != nil {
				log.Fatal(err)
			}
		}
		p := message.NewPrinter(language.English)
		p.Fprintf(os.Stderr, "\033[1;32m[WIDTH:%d] [LINES:%d] [SEED:%d]\033[0m\n", width, cfg.gen, cfg.seed)
		return g.Records(cfg.gen, cfg.genLen)
	}
	in, closeIn := cfg.input()
	defer closeIn()
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	var out []string
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
	return out
}

// report 統計報告一律寫到 stderr，stdout 只放高度
func (cfg *config) report(r *stats.Report, used time.Duration, format string) {
	var err error
	if rd, rerr := stats.RenderOf(format); rerr != nil {
		err = rerr
	} else if _, ok := rd.(*stats.TextReportRender); ok {
		err = r.Fprint(os.Stderr, used)
	} else {
		err = r.WriteWith(os.Stderr, rd)
	}
	if err != nil {
		log.Fatal(err)
	}
}
