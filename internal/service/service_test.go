package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ericogr/escape-the-danger/internal/config"
	"github.com/ericogr/escape-the-danger/internal/feed"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/storage"
)

var catalog = []game.Item{
	{Key: "shield", Title: "Shield", Cost: 300, Available: 3, Effects: game.Effects{Immune: true, ImmuneDuration: 2}},
	{Key: "health_potion", Title: "Health Potion", Cost: 100, Available: 5, Effects: game.Effects{Health: 20}},
}

type harness struct {
	svc   *Service
	db    *gorm.DB
	store storage.Store
	hub   *feed.Hub
}

func newHarness(t *testing.T, rules game.Rules, cards []game.ChanceCard, mode config.DonationMode) *harness {
	t.Helper()
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "escape.db"), catalog)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	store := storage.NewSQLiteRepository(db)
	hub := feed.NewHub()
	svc := New(store, Options{Rules: rules, Cards: cards, DonationMode: mode, Publisher: hub})
	return &harness{svc: svc, db: db, store: store, hub: hub}
}

func quietRules() game.Rules {
	r := game.DefaultRules()
	r.StreamerDrawTurns = nil
	r.DangerDrawTurns = nil
	return r
}

func countType(events []game.Event, t game.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestStartGame_OneLiveGameAtATime(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationBest)

	first, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.StatusActive, first.Game.Status)
	require.Len(t, first.Outcome.Events, 1)
	assert.Equal(t, game.EventGameStarted, first.Outcome.Events[0].Type)

	_, err = h.svc.StartGame(ctx)
	assert.ErrorIs(t, err, game.ErrGameAlreadyLive)

	_, err = h.svc.PauseGame(ctx, first.Game.ID)
	require.NoError(t, err)
	_, err = h.svc.StartGame(ctx)
	assert.ErrorIs(t, err, game.ErrGameAlreadyLive, "a paused game still blocks a new one")

	ended, err := h.svc.EndGame(ctx, first.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusFinished, ended.Game.Status)
	assert.Equal(t, "Game manually ended.", ended.Game.Message)

	second, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Game.ID, second.Game.ID)

	active, err := h.svc.ActiveGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Game.ID, active.ID)
}

func TestAdvanceTurn_CommitsAndPublishes(t *testing.T) {
	ctx := context.Background()
	cards := []game.ChanceCard{{Owner: game.RoleStreamer, Title: "Sprint", Effects: game.Effects{Move: 3}}}
	h := newHarness(t, game.DefaultRules(), cards, config.DonationBest)

	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	ch, cancel := h.hub.Subscribe(started.Game.ID)
	defer cancel()

	res, err := h.svc.AdvanceTurn(ctx, started.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Game.Turn)
	assert.Equal(t, 3, res.Game.Player(game.RoleStreamer).Position)

	msg := <-ch
	assert.Equal(t, res.Batch, msg.Batch)
	assert.Len(t, msg.Events, len(res.Outcome.Events))

	events, err := h.svc.ListEvents(ctx, started.Game.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, game.EventGameStarted, events[0].Type)
	for _, e := range events[1:] {
		assert.Equal(t, res.Batch, e.Batch)
		assert.Equal(t, started.Game.ID, e.GameID)
	}
	assert.Equal(t, 1, countType(events, game.EventTurnEnd))

	left, err := h.store.CountUnplayedCards(ctx, started.Game.ID, game.RoleStreamer)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestAdvanceTurn_FailedCommitLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	cards := []game.ChanceCard{{Owner: game.RoleStreamer, Title: "Sprint", Effects: game.Effects{Move: 3}}}
	h := newHarness(t, game.DefaultRules(), cards, config.DonationBest)

	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	ch, cancel := h.hub.Subscribe(started.Game.ID)
	defer cancel()

	crash := errors.New("disk unplugged")
	err = h.db.Callback().Create().Before("gorm:create").Register("test:fail_turn_end", func(tx *gorm.DB) {
		events, ok := tx.Statement.Dest.(*[]game.Event)
		if !ok {
			return
		}
		for _, e := range *events {
			if e.Type == game.EventTurnEnd {
				_ = tx.AddError(crash)
				return
			}
		}
	})
	require.NoError(t, err)

	_, err = h.svc.AdvanceTurn(ctx, started.Game.ID)
	require.ErrorIs(t, err, crash)

	g, err := h.store.GetGame(ctx, started.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Turn)
	assert.Equal(t, 0, g.Player(game.RoleStreamer).Position)

	left, err := h.store.CountUnplayedCards(ctx, started.Game.ID, game.RoleStreamer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, left, "the drawn card returns to the pool")

	events, err := h.svc.ListEvents(ctx, started.Game.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Len(t, ch, 0)
}

func TestAdvanceTurn_ConcurrentCallsSerialize(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationBest)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)

	const calls = 8
	var g errgroup.Group
	for i := 0; i < calls; i++ {
		g.Go(func() error {
			_, err := h.svc.AdvanceTurn(ctx, started.Game.ID)
			return err
		})
	}
	require.NoError(t, g.Wait())

	final, err := h.store.GetGame(ctx, started.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, calls, final.Turn)

	events, err := h.svc.ListEvents(ctx, started.Game.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, calls, countType(events, game.EventTurnEnd))
}

func TestDrawCard_ConcurrentDrawsGetDistinctCards(t *testing.T) {
	ctx := context.Background()
	var cards []game.ChanceCard
	for i := 0; i < 5; i++ {
		cards = append(cards, game.ChanceCard{Owner: game.RoleStreamer, Title: fmt.Sprintf("Card %d", i)})
	}
	h := newHarness(t, quietRules(), cards, config.DonationBest)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)

	ids := make([]uint, len(cards))
	var g errgroup.Group
	for i := range cards {
		i := i
		g.Go(func() error {
			res, err := h.svc.DrawCard(ctx, started.Game.ID, game.RoleStreamer)
			if err != nil {
				return err
			}
			if len(res.Outcome.Cards) != 1 {
				return fmt.Errorf("draw %d returned %d cards", i, len(res.Outcome.Cards))
			}
			ids[i] = res.Outcome.Cards[0].ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := map[uint]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "card %d drawn twice", id)
		seen[id] = true
	}

	empty, err := h.svc.DrawCard(ctx, started.Game.ID, game.RoleStreamer)
	require.NoError(t, err)
	assert.Empty(t, empty.Outcome.Cards)
}

func TestDonate_BestModeGrantsMostExpensiveItem(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationBest)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)

	res, err := h.svc.Donate(ctx, started.Game.ID, "viewer42", 350)
	require.NoError(t, err)
	require.NotEmpty(t, res.Outcome.Events)
	assert.Equal(t, game.EventDonation, res.Outcome.Events[0].Type)
	assert.Equal(t, "viewer42 donated 350 bits and gifted a Shield!", res.Outcome.Events[0].Message)
	assert.Equal(t, 1, countType(res.Outcome.Events, game.EventInventoryGain))

	inv, err := h.svc.Inventory(ctx, started.Game.ID, game.RoleStreamer)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, "shield", inv[0].Item.Key)
	assert.Equal(t, 1, inv[0].Quantity)
}

func TestDonate_AllModeGrantsEveryAffordableItem(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationAll)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)

	res, err := h.svc.Donate(ctx, started.Game.ID, "", 400)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous donated 400 bits and gifted a Shield, a Health Potion!", res.Outcome.Events[0].Message)
	assert.Equal(t, 2, countType(res.Outcome.Events, game.EventInventoryGain))
}

func TestDonate_RejectsWhenNothingIsAffordable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationBest)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)

	_, err = h.svc.Donate(ctx, started.Game.ID, "viewer", 50)
	assert.ErrorIs(t, err, game.ErrNoAffordable)
	_, err = h.svc.Donate(ctx, started.Game.ID, "viewer", 0)
	assert.ErrorIs(t, err, game.ErrInvalidInput)

	inv, err := h.svc.Inventory(ctx, started.Game.ID, game.RoleStreamer)
	require.NoError(t, err)
	assert.Empty(t, inv)
}

func TestUseItem_AppliesEffectsAndConsumes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationBest)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	id := started.Game.ID

	_, err = h.svc.AddInventory(ctx, id, game.RoleStreamer, "health_potion", 1)
	require.NoError(t, err)
	hurt, err := h.svc.AdjustHealth(ctx, id, game.RoleStreamer, -30)
	require.NoError(t, err)
	assert.Equal(t, 70, hurt.Game.Player(game.RoleStreamer).Health)

	healed, err := h.svc.UseItem(ctx, id, game.RoleStreamer, "Health Potion")
	require.NoError(t, err)
	assert.Equal(t, 90, healed.Game.Player(game.RoleStreamer).Health)

	_, err = h.svc.UseItem(ctx, id, game.RoleStreamer, "health_potion")
	assert.ErrorIs(t, err, game.ErrItemUnavailable)

	g, err := h.store.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 90, g.Player(game.RoleStreamer).Health)
}

func TestGrantStatusAndMove(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationBest)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	id := started.Game.ID

	res, err := h.svc.GrantStatus(ctx, id, game.RoleStreamer, "immune", 2)
	require.NoError(t, err)
	assert.True(t, res.Game.Player(game.RoleStreamer).Immune)

	_, err = h.svc.GrantStatus(ctx, id, game.RoleStreamer, "invisible", 2)
	assert.ErrorIs(t, err, game.ErrUnknownStatus)

	moved, err := h.svc.Move(ctx, id, game.RoleDanger, 5)
	require.NoError(t, err)
	assert.Equal(t, -1, moved.Game.Player(game.RoleDanger).Position)
	assert.Equal(t, 100, moved.Game.Player(game.RoleStreamer).Health, "immunity blocks the bounce penalty")
}

func TestPauseResumeAndTurnClock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, quietRules(), nil, config.DonationBest)

	none, err := h.svc.TickActiveGame(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	id := started.Game.ID

	_, err = h.svc.PauseGame(ctx, id)
	require.NoError(t, err)
	_, err = h.svc.AdvanceTurn(ctx, id)
	assert.ErrorIs(t, err, game.ErrGameNotActive)

	skipped, err := h.svc.TickActiveGame(ctx)
	require.NoError(t, err)
	assert.Nil(t, skipped)

	_, err = h.svc.ResumeGame(ctx, id)
	require.NoError(t, err)
	_, err = h.svc.ResumeGame(ctx, id)
	assert.ErrorIs(t, err, game.ErrGameNotPaused)

	ticked, err := h.svc.TickActiveGame(ctx)
	require.NoError(t, err)
	require.NotNil(t, ticked)
	assert.Equal(t, 1, ticked.Game.Turn)
}

func TestGameState_Snapshot(t *testing.T) {
	ctx := context.Background()
	cards := []game.ChanceCard{
		{Owner: game.RoleStreamer, Title: "A"},
		{Owner: game.RoleStreamer, Title: "B"},
		{Owner: game.RoleDanger, Title: "C"},
	}
	h := newHarness(t, quietRules(), cards, config.DonationBest)
	started, err := h.svc.StartGame(ctx)
	require.NoError(t, err)
	_, err = h.svc.AddInventory(ctx, started.Game.ID, game.RoleDanger, "shield", 2)
	require.NoError(t, err)

	snap, err := h.svc.GameState(ctx, started.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, started.Game.ID, snap.Game.ID)
	assert.EqualValues(t, 2, snap.CardsLeft[game.RoleStreamer])
	assert.EqualValues(t, 1, snap.CardsLeft[game.RoleDanger])
	require.Len(t, snap.Inventory[game.RoleDanger], 1)
	assert.Equal(t, 2, snap.Inventory[game.RoleDanger][0].Quantity)

	_, err = h.svc.GameState(ctx, started.Game.ID+100)
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(game.ErrCardRace))
	assert.True(t, IsDomainError(fmt.Errorf("wrapped: %w", game.ErrUnknownRole)))
	assert.False(t, IsDomainError(errors.New("boom")))
}
