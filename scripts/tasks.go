package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// lineFilter 回傳 false 表示該行不印
type lineFilter func(line string) bool

// okFailOnly 等同 grep -E '^(ok|FAIL)'，另外保留編譯失敗的訊息
func okFailOnly(line string) bool {
	return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
		strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
}

// skipNoTests 等同 grep -v '\[no test files\]'
func skipNoTests(line string) bool {
	return !strings.Contains(line, "[no test files]")
}

// cleanCache go clean -testcache；strict 時失敗就結束
func cleanCache(strict bool) {
	cmd := exec.Command("go", "clean", "-testcache")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("go clean -testcache failed: %v", err))
		if strict {
			os.Exit(1)
		}
	}
}

// runGo 執行 go 子命令。filter 為 nil 時直接接上終端；
// 否則合併 stdout/stderr 逐行過濾，ok 綠色、FAIL 紅色。
func runGo(title string, filter lineFilter, args ...string) {
	PrintGreen(title)
	cmd := exec.Command("go", args...)
	if filter == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			PrintRed(fmt.Sprintf("\n%s finished with errors\n", args[0]))
			os.Exit(1)
		}
		return
	}

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		PrintRed(fmt.Sprintf("failed to get stdout pipe: %v", err))
		os.Exit(1)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		PrintRed(fmt.Sprintf("Error starting go %s: %v", args[0], err))
		os.Exit(1)
	}
	sc := bufio.NewScanner(pipe)
	for sc.Scan() {
		line := sc.Text()
		if !filter(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "failed"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}
	if err := sc.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	if err := cmd.Wait(); err != nil {
		PrintRed("\nTests Finished with Errors\n")
		os.Exit(1)
	}
}
