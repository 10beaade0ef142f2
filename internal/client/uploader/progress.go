package uploader

import "io"

// progressReader counts bytes as the storage SDK consumes them and emits
// integer percentages through the item, which enforces monotonicity.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	item  *Item
	emit  func(pct int)
}

func newProgressReader(r io.Reader, total int64, item *Item, emit func(int)) *progressReader {
	return &progressReader{r: r, total: total, item: item, emit: emit}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct >= 100 {
			// 100 is only emitted once the whole upload succeeded
			pct = 99
		}
		if v, changed := p.item.recordProgress(pct); changed && p.emit != nil {
			p.emit(v)
		}
	}
	return n, err
}
