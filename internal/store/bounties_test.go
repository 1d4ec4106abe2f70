package store

import (
	"errors"
	"testing"
)

func TestInsertBountyDuplicate(t *testing.T) {
	db := testDB(t)

	if err := db.InsertBounty("Clean inbox", 20); err != nil {
		t.Fatalf("InsertBounty: %v", err)
	}
	err := db.InsertBounty("Clean inbox", 50)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
}

func TestClaimBounty(t *testing.T) {
	db := testDB(t)

	db.InsertBounty("Ship v1", 100)
	ev, err := db.ClaimBounty("Ship v1", base)
	if err != nil {
		t.Fatalf("ClaimBounty: %v", err)
	}
	if ev.Activity != BountyActivity || ev.Points != 100 || ev.Duration != 0 {
		t.Errorf("payout = %+v, want Bounty Hunt / 100 pts / 0m", ev)
	}
	if ev.Notes != "CLAIMED: Ship v1" {
		t.Errorf("notes = %q, want CLAIMED: Ship v1", ev.Notes)
	}

	b, _ := db.GetBounty("Ship v1")
	if b.Status != BountyClaimed {
		t.Errorf("status = %q, want Claimed", b.Status)
	}

	events, _ := db.ListEvents()
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want exactly 1 payout", len(events))
	}
}

func TestClaimBountyTwice(t *testing.T) {
	db := testDB(t)

	db.InsertBounty("Ship v1", 100)
	if _, err := db.ClaimBounty("Ship v1", base); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	_, err := db.ClaimBounty("Ship v1", base)
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("err = %v, want ErrAlreadyClaimed", err)
	}

	// No second payout appended
	events, _ := db.ListEvents()
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1", len(events))
	}
}

func TestClaimBountyNotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.ClaimBounty("ghost", base)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteBounty(t *testing.T) {
	db := testDB(t)

	db.InsertBounty("Ship v1", 100)
	db.ClaimBounty("Ship v1", base)

	// Delist works regardless of status
	if err := db.DeleteBounty("Ship v1"); err != nil {
		t.Fatalf("DeleteBounty: %v", err)
	}

	err := db.DeleteBounty("Ship v1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListBountiesOpenFirst(t *testing.T) {
	db := testDB(t)

	db.InsertBounty("A claimed", 10)
	db.InsertBounty("B open", 20)
	db.ClaimBounty("A claimed", base)

	bounties, err := db.ListBounties()
	if err != nil {
		t.Fatalf("ListBounties: %v", err)
	}
	if len(bounties) != 2 {
		t.Fatalf("len = %d, want 2", len(bounties))
	}
	if bounties[0].Name != "B open" {
		t.Errorf("first = %q, want the open bounty", bounties[0].Name)
	}
}
