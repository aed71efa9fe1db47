package services

import (
	"sync"
	"time"
)

// ShopService owns the process-wide shop toggles: manual open/close
// overrides and the reservation switch. All reads and writes go through one
// instance guarded by a mutex; there are no package-level flags.
type ShopService struct {
	mu          sync.Mutex
	forceOpen   bool
	forceClosed bool
	reservation bool
	loc         *time.Location
}

const (
	openHour  = 9
	closeHour = 17
)

func NewShopService(loc *time.Location) *ShopService {
	if loc == nil {
		loc = time.UTC
	}
	return &ShopService{loc: loc}
}

type ShopStatus struct {
	Open            bool `json:"open"`
	ReservationOpen bool `json:"reservationOpen"`
}

func (s *ShopService) Status() ShopStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	open := s.onSchedule()
	if s.forceOpen {
		open = true
	} else if s.forceClosed {
		open = false
	}
	return ShopStatus{Open: open, ReservationOpen: s.reservation}
}

// SetOpen forces the shop open or closed regardless of schedule.
func (s *ShopService) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceOpen = open
	s.forceClosed = !open
}

func (s *ShopService) SetReservation(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservation = open
}

// onSchedule: closed Tuesdays, otherwise open 09:00-17:00 shop time.
func (s *ShopService) onSchedule() bool {
	now := time.Now().In(s.loc)
	if now.Weekday() == time.Tuesday {
		return false
	}
	return now.Hour() >= openHour && now.Hour() < closeHour
}
