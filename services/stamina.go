package services

import (
	"log"

	"mystery-tiles/models"
	"mystery-tiles/protocol"
	"mystery-tiles/repository"
)

// StaminaService regenerates every user's stamina and tells connected owners.
type StaminaService struct {
	store    *repository.Store
	sessions *SessionRegistry
	gateway  *Gateway
	max      int
	rate     int
}

func NewStaminaService(store *repository.Store, sessions *SessionRegistry, gateway *Gateway, maxStamina, recoveryRate int) *StaminaService {
	return &StaminaService{
		store:    store,
		sessions: sessions,
		gateway:  gateway,
		max:      maxStamina,
		rate:     recoveryRate,
	}
}

// Recover adds the recovery rate to every user below max, clamped to max, in
// one update. Returns how many users changed.
func (s *StaminaService) Recover() int {
	changed := 0
	_ = s.store.Update(func(doc *models.Document) error {
		for i := range doc.Users {
			u := &doc.Users[i]
			if u.Stamina >= s.max {
				continue
			}
			u.Stamina = min(u.Stamina+s.rate, s.max)
			changed++
		}
		return nil
	})
	return changed
}

// NotifySessions sends each connected session its user's stamina. Users with
// no session are skipped; they get the value on next login.
func (s *StaminaService) NotifySessions() int {
	sessions := s.sessions.Sessions()
	if len(sessions) == 0 {
		return 0
	}

	stamina := make(map[string]int, len(sessions))
	s.store.View(func(doc *models.Document) {
		for _, sess := range sessions {
			if u := doc.FindUser(sess.Identity.UID); u != nil {
				stamina[sess.Identity.UID] = u.Stamina
			}
		}
	})

	sent := 0
	for _, sess := range sessions {
		v, ok := stamina[sess.Identity.UID]
		if !ok {
			continue
		}
		s.gateway.Send(sess.ClientID, protocol.EventUpdateGameStore, protocol.GameStorePatch{Stamina: protocol.Ptr(v)})
		sent++
	}
	return sent
}

// Tick is one scheduler run.
func (s *StaminaService) Tick() {
	changed := s.Recover()
	sent := s.NotifySessions()
	if changed > 0 {
		log.Printf("[STAMINA] Recovered %d user(s), notified %d session(s)", changed, sent)
	}
}
