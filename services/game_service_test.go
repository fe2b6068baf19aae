package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"secretsanta/models"
	"secretsanta/testutil"
)

func TestCreateGame(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "org", "secret1", false)
	svc := NewGameService(db, NewShareLinks("http://santa.test"), nil)
	ctx := context.Background()

	game, err := svc.Create(ctx, owner.ID, &CreateGameRequest{Name: "  Navidad 2024 ", Description: " familia "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if game.Name != "Navidad 2024" {
		t.Errorf("expected trimmed name, got %q", game.Name)
	}
	if game.Description == nil || *game.Description != "familia" {
		t.Errorf("unexpected description %v", game.Description)
	}
	if game.IsActive {
		t.Error("new game should be inactive")
	}

	if _, err := svc.Create(ctx, owner.ID, &CreateGameRequest{Name: "   "}); !errors.Is(err, ErrEmptyGameName) {
		t.Errorf("expected ErrEmptyGameName, got %v", err)
	}
}

func TestListGamesCountsParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "org", "secret1", false)
	other := testutil.CreateTestUser(t, db, "other", "secret1", false)
	svc := NewGameService(db, NewShareLinks("http://santa.test"), nil)

	first := testutil.CreateTestGame(t, db, owner.ID, "first")
	second := testutil.CreateTestGame(t, db, owner.ID, "second")
	testutil.CreateTestGame(t, db, other.ID, "foreign")
	testutil.AddTestParticipant(t, db, first.ID, "Ana", "ana", "AAAAAA")
	testutil.AddTestParticipant(t, db, first.ID, "Luis", "luis", "BBBBBB")

	games, err := svc.List(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}

	counts := map[uint]int64{}
	for _, g := range games {
		counts[g.ID] = g.ParticipantCount
	}
	if counts[first.ID] != 2 || counts[second.ID] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestGetGameHidesRecipients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "org", "secret1", false)
	svc := NewGameService(db, NewShareLinks("http://santa.test"), nil)

	game := testutil.CreateTestGame(t, db, owner.ID, "g")
	ana := testutil.AddTestParticipant(t, db, game.ID, "Ana", "ana", "AAAAAA")
	luis := testutil.AddTestParticipant(t, db, game.ID, "Luis", "luis", "BBBBBB")
	db.Model(ana).Update("assigned_to_id", luis.ID)

	detail, err := svc.Get(context.Background(), owner.ID, game.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(detail.Participants))
	}

	p := detail.Participants[0]
	if p.Name != "Ana" || !p.Assigned || p.AccessCode != "AAAAAA" {
		t.Errorf("unexpected view %+v", p)
	}
	if want := fmt.Sprintf("http://santa.test/g/%d/ana", game.ID); p.ShareURL != want {
		t.Errorf("expected share url %q, got %q", want, p.ShareURL)
	}
	if detail.Participants[1].Assigned {
		t.Error("Luis has no recipient yet")
	}
}

func TestOwnershipLooksLikeMissingGame(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "org", "secret1", false)
	intruder := testutil.CreateTestUser(t, db, "intruder", "secret1", false)
	game := testutil.CreateTestGame(t, db, owner.ID, "g")
	testutil.AddTestParticipant(t, db, game.ID, "Ana", "ana", "AAAAAA")
	testutil.AddTestParticipant(t, db, game.ID, "Luis", "luis", "BBBBBB")

	games := NewGameService(db, NewShareLinks("http://santa.test"), nil)
	participants := NewParticipantService(db, games, NewShareLinks("http://santa.test"), nil)
	assignments := NewAssignmentService(db, nil, nil)
	ctx := context.Background()

	ops := map[string]func(userID, gameID uint) error{
		"get":    func(u, g uint) error { _, err := games.Get(ctx, u, g); return err },
		"delete": func(u, g uint) error { return games.Delete(ctx, u, g) },
		"add":    func(u, g uint) error { _, err := participants.Add(ctx, u, g, "Eva"); return err },
		"remove": func(u, g uint) error { return participants.Remove(ctx, u, g, 1) },
		"clear":  func(u, g uint) error { return participants.Clear(ctx, u, g) },
		"assign": func(u, g uint) error { return assignments.Assign(ctx, u, g) },
		"reset":  func(u, g uint) error { return assignments.Reset(ctx, u, g) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			foreign := op(intruder.ID, game.ID)
			missing := op(owner.ID, 9999)
			if !errors.Is(foreign, ErrGameNotFound) {
				t.Errorf("foreign game: expected ErrGameNotFound, got %v", foreign)
			}
			if !errors.Is(missing, ErrGameNotFound) {
				t.Errorf("missing game: expected ErrGameNotFound, got %v", missing)
			}
		})
	}

	if got := len(testutil.LoadParticipants(t, db, game.ID)); got != 2 {
		t.Errorf("foreign calls must not change the game, got %d participants", got)
	}
}

func TestDeleteGameRemovesParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "org", "secret1", false)
	notifier := &recordingNotifier{}
	svc := NewGameService(db, NewShareLinks("http://santa.test"), notifier)

	game := testutil.CreateTestGame(t, db, owner.ID, "g")
	keep := testutil.CreateTestGame(t, db, owner.ID, "keep")
	a := testutil.AddTestParticipant(t, db, game.ID, "Ana", "ana", "AAAAAA")
	b := testutil.AddTestParticipant(t, db, game.ID, "Luis", "luis", "BBBBBB")
	db.Model(a).Update("assigned_to_id", b.ID)
	db.Model(b).Update("assigned_to_id", a.ID)
	testutil.AddTestParticipant(t, db, keep.ID, "Eva", "eva", "CCCCCC")

	if err := svc.Delete(context.Background(), owner.ID, game.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	db.Model(&models.Game{}).Where("id = ?", game.ID).Count(&count)
	if count != 0 {
		t.Error("game still exists")
	}
	if got := len(testutil.LoadParticipants(t, db, game.ID)); got != 0 {
		t.Errorf("expected participants to be deleted, got %d", got)
	}
	if got := len(testutil.LoadParticipants(t, db, keep.ID)); got != 1 {
		t.Errorf("other games must be untouched, got %d participants", got)
	}
	if ev, ok := notifier.last(); !ok || ev.event != EventDeleted || ev.gameID != game.ID {
		t.Errorf("expected deleted event, got %+v", ev)
	}
}
