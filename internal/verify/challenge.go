package verify

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrNoChallenge = errors.New("no open challenge, send /mine first")
	ErrRateLimited = errors.New("too many attempts, slow down")
	ErrWrongAnswer = errors.New("wrong answer, try again")
	ErrExpired     = errors.New("challenge expired, send /mine again")
)

const (
	minOperand = 1
	maxOperand = 20

	// idleWindow is how long a chat may stay silent before its limiter and
	// any expired challenge are dropped.
	idleWindow = 10 * time.Minute
)

// Rand draws challenge operands.
type Rand interface {
	IntN(n int) int // [0, n)
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Challenge is an open addition problem.
type Challenge struct {
	A, B     int
	IssuedAt time.Time
}

// Question renders the challenge for a chat reply.
func (c Challenge) Question() string {
	return fmt.Sprintf("Solve: %d + %d", c.A, c.B)
}

// Challenger issues one addition challenge per chat and checks answers.
// Each challenge is consumed by its first answer, right or wrong, and answer
// attempts are rate limited per chat.
type Challenger struct {
	mu        sync.Mutex
	rng       Rand
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	open      map[string]Challenge
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewChallenger creates a challenger allowing limit attempts per second with
// the given burst. A zero ttl never expires challenges.
func NewChallenger(rng Rand, limit rate.Limit, burst int, ttl time.Duration) *Challenger {
	if rng == nil {
		rng = globalRand{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Challenger{
		rng:      rng,
		limit:    limit,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
		open:     make(map[string]Challenge),
		visitors: make(map[string]*visitor),
	}
}

// Issue opens a new challenge for chat, replacing any open one.
func (c *Challenger) Issue(chat string) Challenge {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweep(now)
	ch := Challenge{
		A:        minOperand + c.rng.IntN(maxOperand-minOperand+1),
		B:        minOperand + c.rng.IntN(maxOperand-minOperand+1),
		IssuedAt: now,
	}
	c.open[chat] = ch
	return ch
}

// Pending returns the open challenge of chat, if any.
func (c *Challenger) Pending(chat string) (Challenge, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.open[chat]
	return ch, ok
}

// Check consumes the open challenge of chat and reports whether answer solves it.
func (c *Challenger) Check(chat string, answer int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)
	if !c.limiter(chat, now).AllowN(now, 1) {
		return ErrRateLimited
	}
	ch, ok := c.open[chat]
	if !ok {
		return ErrNoChallenge
	}
	delete(c.open, chat)
	if c.ttl > 0 && now.Sub(ch.IssuedAt) > c.ttl {
		return ErrExpired
	}
	if answer != ch.A+ch.B {
		return ErrWrongAnswer
	}
	return nil
}

func (c *Challenger) limiter(chat string, now time.Time) *rate.Limiter {
	v, ok := c.visitors[chat]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.visitors[chat] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep runs at most once per idle window. A limiter idle that long has
// refilled its burst, so dropping it keeps the limit intact.
func (c *Challenger) sweep(now time.Time) {
	if now.Sub(c.lastSweep) < idleWindow {
		return
	}
	c.lastSweep = now
	for chat, v := range c.visitors {
		if now.Sub(v.lastSeen) > idleWindow {
			delete(c.visitors, chat)
		}
	}
	if c.ttl <= 0 {
		return
	}
	for chat, ch := range c.open {
		if now.Sub(ch.IssuedAt) > c.ttl+idleWindow {
			delete(c.open, chat)
		}
	}
}

// Attempt is a single answer to check. It satisfies the economy's human gate:
// Passed runs the check once and Err reports why it failed.
type Attempt struct {
	c      *Challenger
	chat   string
	answer int
	once   sync.Once
	err    error
}

// Attempt wraps an answer for chat as a gate.
func (c *Challenger) Attempt(chat string, answer int) *Attempt {
	return &Attempt{c: c, chat: chat, answer: answer}
}

func (a *Attempt) Passed() bool {
	a.once.Do(func() { a.err = a.c.Check(a.chat, a.answer) })
	return a.err == nil
}

// Err returns the check result after Passed has run.
func (a *Attempt) Err() error {
	return a.err
}
