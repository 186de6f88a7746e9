package buffer

import (
	"pagestore/guard"
	"pagestore/page"
	"pagestore/replacer"
)

// FetchBasic fetches id and wraps it in a Basic guard. Returns nil if the
// page cannot be fetched.
func (p *Pool) FetchBasic(id page.ID) *guard.Basic {
	frame, ok := p.Fetch(id, replacer.Unknown)
	if !ok {
		return nil
	}
	return guard.NewBasic(p, frame)
}

// FetchRead fetches id, pinning it, and wraps it in a Read guard holding
// the page's shared latch.
func (p *Pool) FetchRead(id page.ID) *guard.Read {
	frame, ok := p.Fetch(id, replacer.Unknown)
	if !ok {
		return nil
	}
	return guard.NewRead(p, frame)
}

// FetchWrite fetches id, pinning it, and wraps it in a Write guard
// holding the page's exclusive latch.
func (p *Pool) FetchWrite(id page.ID) *guard.Write {
	frame, ok := p.Fetch(id, replacer.Unknown)
	if !ok {
		return nil
	}
	return guard.NewWrite(p, frame)
}

// NewGuarded allocates a fresh page and wraps it in a Basic guard.
func (p *Pool) NewGuarded() (page.ID, *guard.Basic) {
	id, frame, ok := p.NewPage()
	if !ok {
		return page.Invalid, nil
	}
	return id, guard.NewBasic(p, frame)
}
