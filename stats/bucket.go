package stats

// HeightBuckets 最終高度區間
//
// 用來快速定位高度 -> Collect 位置 O(1)
//
// 請勿修改預設值
//   - 高度區間: [0,0], [1,2), [2,4), [4,8), ..., [64,128), [128,+inf)
type HeightBuckets struct {
	bounds []int
	labels []string
	lut    []int // lut[h] = idx，h < lutMax
	lutMax int
}

var Buckets *HeightBuckets = newHeightBuckets(
	[]int{0, 1, 2, 4, 8, 16, 32, 64, 128},
	[]string{"[0,0]", "[1,2)", "[2,4)", "[4,8)", "[8,16)", "[16,32)", "[32,64)", "[64,128)", "[128,+inf)"},
)

func newHeightBuckets(bounds []int, labels []string) *HeightBuckets {
	lutMax := bounds[len(bounds)-1]
	lut := make([]int, lutMax)
	idx := 0
	last := len(bounds) - 1
	for h := 0; h < lutMax; h++ {
		// 僅在還有更高邊界時才前進 idx，避免越界讀取
		for idx < last && h >= bounds[idx+1] {
			idx++
		}
		lut[h] = idx
	}
	return &HeightBuckets{bounds: bounds, labels: labels, lut: lut, lutMax: lutMax}
}

func (b *HeightBuckets) Labels() []string {
	out := make([]string, len(b.labels))
	copy(out, b.labels)
	return out
}

func (b *HeightBuckets) Len() int { return len(b.labels) }

// Index 高度所屬區間；負值視為 0
func (b *HeightBuckets) Index(h int) int {
	if h >= b.lutMax {
		return len(b.labels) - 1
	}
	if h < 0 {
		return 0
	}
	return b.lut[h]
}
