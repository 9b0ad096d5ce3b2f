// Package pacing provides cancellable tokens for cosmetic delayed steps:
// the bot "thinking", the trivia answer reveal, the memory card reveal and
// the shell's auto-open timers.
//
// A Queue never sleeps or spawns goroutines. Schedule hands back a Deferred
// that a driver (tea.Tick, time.AfterFunc) waits on before returning the
// token through Claim. Cancel bumps the epoch so tokens issued before it are
// rejected, which is how a closed modal keeps stale callbacks away from
// discarded state.
package pacing

import "time"

// Kind names what a deferred step does when it fires.
type Kind string

// Token identifies one scheduled step.
type Token struct {
	Epoch uint64
	Seq   uint64
	Kind  Kind
}

// Deferred is a token plus the delay a driver should wait before firing it.
type Deferred struct {
	Token Token
	Delay time.Duration
}

// Queue issues and validates tokens. The zero value is ready to use.
// It is not safe for concurrent use; drivers serialize access.
type Queue struct {
	epoch   uint64
	seq     uint64
	pending map[uint64]Token
}

// Schedule registers a step of the given kind and returns it for a driver.
func (q *Queue) Schedule(kind Kind, delay time.Duration) Deferred {
	if q.pending == nil {
		q.pending = make(map[uint64]Token)
	}
	q.seq++
	tok := Token{Epoch: q.epoch, Seq: q.seq, Kind: kind}
	q.pending[tok.Seq] = tok
	if delay < 0 {
		delay = 0
	}
	return Deferred{Token: tok, Delay: delay}
}

// Cancel invalidates every token issued so far.
func (q *Queue) Cancel() {
	q.epoch++
	clear(q.pending)
}

// Claim consumes a fired token. It reports false for tokens that were
// cancelled, already claimed or issued by a different queue epoch.
func (q *Queue) Claim(tok Token) bool {
	if tok.Epoch != q.epoch {
		return false
	}
	pending, ok := q.pending[tok.Seq]
	if !ok || pending != tok {
		return false
	}
	delete(q.pending, tok.Seq)
	return true
}

// Pending returns the number of outstanding tokens.
func (q *Queue) Pending() int {
	return len(q.pending)
}
