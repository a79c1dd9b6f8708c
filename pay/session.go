/*
session.go - Calculator session state and the selection rule

SELECTION RULE:

	Whenever the active award changes, whether the caller selects a
	different award or the registry reports a new version of the active
	one, the active classification is reset to the award's first
	classification. A classification id from another award can therefore
	never be active.

TRANSITIONS:
  - SelectAward(a):              code = a.Code, classification = first of a
  - SelectClassification(a, id): id must belong to a, and a must be active
  - AwardChanged(a):             if a is active, classification = first of a
  - SetShift / Reset:            edit the week

Sessions is the server-side table of sessions. It subscribes to the
registry so AwardChanged runs on every upsert.
*/
package pay

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairpay/award-engine/award"
)

// =============================================================================
// SESSION
// =============================================================================

type Session struct {
	ID               string    `json:"id"`
	AwardCode        string    `json:"awardCode"`
	ClassificationID string    `json:"classificationId"`
	Week             Week      `json:"week"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewSession(id string) *Session {
	return &Session{ID: id, Week: NewWeek()}
}

// SelectAward makes a the active award and resets the classification.
func (s *Session) SelectAward(a award.Award) {
	s.AwardCode = a.Code
	s.ClassificationID = ""
	if c, ok := a.DefaultClassification(); ok {
		s.ClassificationID = c.ID
	}
}

// SelectClassification activates id, which must belong to the active award a.
func (s *Session) SelectClassification(a award.Award, id string) error {
	if s.AwardCode == "" || a.Code != s.AwardCode {
		return ErrNoAwardSelected
	}
	if _, ok := a.Classification(id); !ok {
		return &ClassificationNotFoundError{AwardCode: a.Code, ClassificationID: id}
	}
	s.ClassificationID = id
	return nil
}

// AwardChanged re-derives the classification if a is the active award.
// Reports whether the session changed.
func (s *Session) AwardChanged(a award.Award) bool {
	if a.Code != s.AwardCode {
		return false
	}
	s.SelectAward(a)
	return true
}

// SetShift validates and stores the shift for day.
func (s *Session) SetShift(d Day, shift Shift) error {
	next := s.Week
	next.Set(d, shift)
	if err := next.Validate(); err != nil {
		return err
	}
	s.Week = next
	return nil
}

// Reset clears every shift.
func (s *Session) Reset() {
	s.Week = NewWeek()
}

// Breakdown resolves the selection against reg and runs the engine.
func (s *Session) Breakdown(reg *award.Registry) (Breakdown, error) {
	_, b, err := s.calculate(reg)
	return b, err
}

// calculate returns the award version it resolved along with the result.
func (s *Session) calculate(reg *award.Registry) (award.Award, Breakdown, error) {
	if s.AwardCode == "" {
		return award.Award{}, Breakdown{}, ErrNoAwardSelected
	}
	a, err := reg.Get(s.AwardCode)
	if err != nil {
		return award.Award{}, Breakdown{}, err
	}
	b, err := CalculateFor(&a, s.ClassificationID, s.Week)
	if err != nil {
		return award.Award{}, Breakdown{}, err
	}
	return a, b, nil
}

// Calculation is a session breakdown together with the exact award
// version it was computed against.
type Calculation struct {
	Session   Session
	Award     award.Award
	Breakdown Breakdown
}

// =============================================================================
// SESSIONS - In-memory session table
// =============================================================================

type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	registry *award.Registry
	now      func() time.Time
}

// NewSessions creates the table and subscribes it to reg.
func NewSessions(reg *award.Registry) *Sessions {
	s := &Sessions{
		sessions: make(map[string]*Session),
		registry: reg,
		now:      time.Now,
	}
	reg.OnChange(s.awardChanged)
	return s
}

// Create opens a session on awardCode, or on the registry's first award
// when awardCode is empty. With an empty registry the session starts
// with no selection.
func (s *Sessions) Create(awardCode string) (Session, error) {
	sess := NewSession(uuid.NewString())

	if awardCode != "" {
		a, err := s.registry.Get(awardCode)
		if err != nil {
			return Session{}, err
		}
		sess.SelectAward(a)
	} else if a, ok := s.registry.First(); ok {
		sess.SelectAward(a)
	}

	now := s.now()
	sess.CreatedAt, sess.UpdatedAt = now, now

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return *sess, nil
}

func (s *Sessions) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

// Update applies fn to a copy of the session and stores it if fn succeeds.
func (s *Sessions) Update(id string, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	next := *sess
	if err := fn(&next); err != nil {
		return Session{}, err
	}
	next.UpdatedAt = s.now()
	*sess = next
	return next, nil
}

// SelectAward looks the code up in the registry and applies the selection rule.
func (s *Sessions) SelectAward(id, awardCode string) (Session, error) {
	a, err := s.registry.Get(awardCode)
	if err != nil {
		return Session{}, err
	}
	return s.Update(id, func(sess *Session) error {
		sess.SelectAward(a)
		return nil
	})
}

// SelectClassification validates id against the session's active award.
func (s *Sessions) SelectClassification(id, classificationID string) (Session, error) {
	current, err := s.Get(id)
	if err != nil {
		return Session{}, err
	}
	if current.AwardCode == "" {
		return Session{}, ErrNoAwardSelected
	}
	a, err := s.registry.Get(current.AwardCode)
	if err != nil {
		return Session{}, err
	}
	return s.Update(id, func(sess *Session) error {
		return sess.SelectClassification(a, classificationID)
	})
}

// Breakdown calculates the session's current week.
func (s *Sessions) Breakdown(id string) (Calculation, error) {
	sess, err := s.Get(id)
	if err != nil {
		return Calculation{}, err
	}
	a, b, err := sess.calculate(s.registry)
	if err != nil {
		return Calculation{}, err
	}
	return Calculation{Session: sess, Award: a, Breakdown: b}, nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) awardChanged(a award.Award) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, sess := range s.sessions {
		if sess.AwardChanged(a) {
			sess.UpdatedAt = now
		}
	}
}
