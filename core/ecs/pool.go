package ecs

// IndexPool hands out small dense indices and recycles released ones.
// Recycled indices are reused LIFO before the high-water mark grows, so
// storage stays compact under churn.
//
// An index is either live or sitting in the recycle stack, never both.
// Releasing an index twice breaks that invariant; the pool does not check.
type IndexPool struct {
	recycled []int
	next     int
}

func NewIndexPool() *IndexPool {
	return &IndexPool{
		recycled: make([]int, 0, 256),
	}
}

// Acquire returns a recycled index if one is available, otherwise the
// current high-water mark (which is then advanced by one).
func (p *IndexPool) Acquire() int {
	if n := len(p.recycled); n > 0 {
		idx := p.recycled[n-1]
		p.recycled = p.recycled[:n-1]
		return idx
	}
	idx := p.next
	p.next++
	return idx
}

// Release pushes idx onto the recycle stack. idx must be live.
func (p *IndexPool) Release(idx int) {
	p.recycled = append(p.recycled, idx)
}

// Count returns the number of live indices.
func (p *IndexPool) Count() int {
	return p.next - len(p.recycled)
}

// HighWater returns the number of indices ever handed out.
func (p *IndexPool) HighWater() int {
	return p.next
}
