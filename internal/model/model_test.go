package model

import "testing"

func TestCanTransition(t *testing.T) {
	legal := map[[2]Status]bool{
		{StatusPending, StatusAccepted}:        true,
		{StatusAccepted, StatusPendingReview}:  true,
		{StatusPendingReview, StatusCompleted}: true,
	}
	for _, from := range append(Statuses, "bogus") {
		for _, to := range append(Statuses, "bogus") {
			want := legal[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatusKnownTerminal(t *testing.T) {
	for _, s := range Statuses {
		if !s.Known() {
			t.Errorf("%s should be known", s)
		}
		if s.Terminal() != (s == StatusCompleted) {
			t.Errorf("%s Terminal = %v", s, s.Terminal())
		}
	}
	if Status("archived").Known() {
		t.Error("archived should be unknown")
	}
}

func TestClaimant(t *testing.T) {
	id, name := "u1", "Ann"
	task := Task{AcceptedByID: &id, AcceptedByName: &name}
	if gotID, gotName := task.Claimant(); gotID != "u1" || gotName != "Ann" {
		t.Errorf("Claimant = %q/%q", gotID, gotName)
	}
	if !task.ClaimedBy("u1") || task.ClaimedBy("u2") {
		t.Error("ClaimedBy mismatch")
	}
	if gotID, _ := (Task{}).Claimant(); gotID != "" || (Task{}).ClaimedBy("") {
		t.Error("unclaimed task must have no claimant")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   PointBalance
		want string
	}{
		{PointBalance{UserID: "2195556927", Name: "Zoë"}, "Zoë"},
		{PointBalance{UserID: "2195556927"}, "user-219555"},
		{PointBalance{UserID: "42"}, "user-42"},
	}
	for _, tt := range tests {
		if got := tt.in.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
