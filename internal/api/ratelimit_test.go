package api

import (
	"testing"
	"time"
)

func TestRequestCounterAllowsUnderLimit(t *testing.T) {
	rc := NewRequestCounter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rc.Allow("client-a") {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if rc.Allow("client-a") {
		t.Error("request over the limit allowed")
	}
}

func TestRequestCounterPerClient(t *testing.T) {
	rc := NewRequestCounter(1, time.Minute)
	if !rc.Allow("client-a") {
		t.Fatal("first client denied")
	}
	if !rc.Allow("client-b") {
		t.Error("second client denied; limits must be per client")
	}
	if rc.ClientCount() != 2 {
		t.Errorf("ClientCount = %d, want 2", rc.ClientCount())
	}
}

func TestRequestCounterWindowSlides(t *testing.T) {
	now := time.Unix(1000, 0)
	rc := NewRequestCounter(2, time.Minute)
	rc.now = func() time.Time { return now }

	rc.Allow("client-a")
	rc.Allow("client-a")
	if rc.Allow("client-a") {
		t.Fatal("third request inside the window allowed")
	}

	now = now.Add(61 * time.Second)
	if !rc.Allow("client-a") {
		t.Error("request denied after the window slid past the earlier hits")
	}
}

func TestRequestCounterZeroLimitDisables(t *testing.T) {
	rc := NewRequestCounter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !rc.Allow("client-a") {
			t.Fatal("zero limit must disable counting")
		}
	}
}
