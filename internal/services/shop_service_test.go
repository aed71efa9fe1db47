package services_test

import (
	"testing"
	"time"

	"thebaker/internal/services"
)

func TestShopForceOverrides(t *testing.T) {
	svc := services.NewShopService(time.UTC)

	svc.SetOpen(true)
	if !svc.Status().Open {
		t.Fatal("force-open must override the schedule")
	}

	svc.SetOpen(false)
	if svc.Status().Open {
		t.Fatal("force-close must override the schedule")
	}
}

func TestShopReservationToggle(t *testing.T) {
	svc := services.NewShopService(time.UTC)

	if svc.Status().ReservationOpen {
		t.Fatal("reservations start closed")
	}
	svc.SetReservation(true)
	if !svc.Status().ReservationOpen {
		t.Fatal("reservation toggle lost")
	}
	svc.SetReservation(false)
	if svc.Status().ReservationOpen {
		t.Fatal("reservation toggle lost")
	}
}
