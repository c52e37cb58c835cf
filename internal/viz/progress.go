package viz

import (
	"io"
	"math/big"

	"github.com/cheggaaa/pb/v3"
)

// Progress shows series terms as a progress bar. A term lower than the last
// one seen starts a new bar, which happens when a computation is retried on
// another engine.
type Progress struct {
	out  io.Writer
	bar  *pb.ProgressBar
	last int
	done bool
}

func NewProgress(out io.Writer) *Progress {
	return &Progress{out: out}
}

func (p *Progress) OnTerm(term, total int, _ *big.Float) {
	if p.bar == nil || term < p.last {
		p.Finish()
		p.bar = pb.New(total)
		p.bar.SetWriter(p.out)
		p.bar.Start()
		p.done = false
	}
	p.bar.SetCurrent(int64(term))
	p.last = term
}

// Current is the last term reported.
func (p *Progress) Current() int64 {
	if p.bar == nil {
		return 0
	}
	return p.bar.Current()
}

func (p *Progress) Finish() {
	if p.bar != nil && !p.done {
		p.bar.Finish()
		p.done = true
	}
}
