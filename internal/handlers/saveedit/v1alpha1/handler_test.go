package v1alpha1_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/handlers/saveedit/v1alpha1"
	"github.com/KirkDiggler/witchfire-saves/internal/inventory"
	"github.com/KirkDiggler/witchfire-saves/internal/orchestrators/saveedit"
	saveeditmock "github.com/KirkDiggler/witchfire-saves/internal/orchestrators/saveedit/mock"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *saveeditmock.MockService
	handler     *v1alpha1.Handler
	ctx         context.Context
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = saveeditmock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{SaveEditService: s.mockService})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) req(fields map[string]any) *structpb.Struct {
	req, err := structpb.NewStruct(fields)
	s.Require().NoError(err)
	return req
}

func (s *HandlerTestSuite) requireCode(err error, code codes.Code) {
	s.Require().Error(err)
	st, ok := status.FromError(err)
	s.Require().True(ok)
	s.Equal(code, st.Code(), st.Message())
}

func (s *HandlerTestSuite) TestNewHandlerRequiresService() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = v1alpha1.NewHandler(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestOpenSession() {
	created := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	s.mockService.EXPECT().
		OpenSession(s.ctx, &saveedit.OpenSessionInput{
			Name:     "slot.json",
			Document: []byte(`{"a":1}`),
			TTL:      90 * time.Second,
		}).
		Return(&saveedit.OpenSessionOutput{
			Session: &saveedit.SessionInfo{ID: "sess_1", Name: "slot.json", Revision: 1, CreatedAt: created},
			Summary: &savedoc.Summary{
				Stats:  []savedoc.Stat{{Name: "Arcana", Level: 4}},
				Counts: map[string]int{savedoc.ItemContainers: 2},
			},
		}, nil)

	resp, err := s.handler.OpenSession(s.ctx, s.req(map[string]any{
		"name":        "slot.json",
		"document":    `{"a":1}`,
		"ttl_seconds": 90,
	}))
	s.Require().NoError(err)

	got := resp.AsMap()
	session := got["session"].(map[string]any)
	s.Equal("sess_1", session["id"])
	s.Equal(float64(1), session["revision"])
	s.Equal("2025-03-14T09:00:00Z", session["created_at"])
	s.Equal("", session["expires_at"])

	summary := got["summary"].(map[string]any)
	s.Equal([]any{map[string]any{"name": "Arcana", "level": float64(4)}}, summary["stats"])
	s.Equal(float64(2), summary["counts"].(map[string]any)[savedoc.ItemContainers])
}

func (s *HandlerTestSuite) TestOpenSessionValidation() {
	testCases := []struct {
		name   string
		fields map[string]any
	}{
		{name: "missing document", fields: map[string]any{}},
		{name: "document not a string", fields: map[string]any{"document": map[string]any{"a": 1}}},
		{name: "fractional ttl", fields: map[string]any{"document": "{}", "ttl_seconds": 1.5}},
		{name: "negative ttl", fields: map[string]any{"document": "{}", "ttl_seconds": -1}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.handler.OpenSession(s.ctx, s.req(tc.fields))
			s.requireCode(err, codes.InvalidArgument)
		})
	}
}

func (s *HandlerTestSuite) TestAddItem() {
	item := catalog.MustDefault()
	flintlock, ok := item.Item("weapon.flintlock_pistol")
	s.Require().True(ok)

	s.mockService.EXPECT().
		AddItem(s.ctx, &saveedit.AddItemInput{SessionID: "sess_1", ItemID: "weapon.flintlock_pistol"}).
		Return(&saveedit.AddItemOutput{
			Item:     flintlock,
			Added:    &inventory.Added{Target: flintlock.Target(), ID: 58, Rarity: witchfire.RarityCommon},
			Revision: 3,
		}, nil)

	resp, err := s.handler.AddItem(s.ctx, s.req(map[string]any{
		"session_id": "sess_1",
		"item_id":    "weapon.flintlock_pistol",
	}))
	s.Require().NoError(err)

	got := resp.AsMap()
	s.Equal(float64(58), got["record_id"])
	s.Equal("Common", got["rarity"])
	s.Equal("weapon:HandCannon.Light", got["item"].(map[string]any)["target"])
}

func (s *HandlerTestSuite) TestServiceErrorsKeepTheirCode() {
	testCases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "not found", err: errors.NotFound("session gone"), code: codes.NotFound},
		{name: "invalid", err: errors.InvalidArgument("unknown item"), code: codes.InvalidArgument},
		{name: "conflict", err: errors.Aborted("modified"), code: codes.Aborted},
		{name: "plain", err: context.DeadlineExceeded, code: codes.DeadlineExceeded},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockService.EXPECT().
				CountInInventory(s.ctx, gomock.Any()).
				Return(nil, errors.Wrap(tc.err, "failed"))

			_, err := s.handler.CountInInventory(s.ctx, s.req(map[string]any{"session_id": "s", "item": "x"}))
			s.requireCode(err, tc.code)
		})
	}
}

func (s *HandlerTestSuite) TestSetTierRequiresIntegerTier() {
	_, err := s.handler.SetTier(s.ctx, s.req(map[string]any{"session_id": "s", "item": "x"}))
	s.requireCode(err, codes.InvalidArgument)

	_, err = s.handler.SetTier(s.ctx, s.req(map[string]any{"session_id": "s", "item": "x", "tier": "2"}))
	s.requireCode(err, codes.InvalidArgument)

	s.mockService.EXPECT().
		SetTier(s.ctx, &saveedit.SetTierInput{SessionID: "s", Item: "x", Tier: -4}).
		Return(&saveedit.SetTierOutput{Tier: 0, Revision: 2}, nil)

	resp, err := s.handler.SetTier(s.ctx, s.req(map[string]any{"session_id": "s", "item": "x", "tier": -4}))
	s.Require().NoError(err)
	s.Equal(float64(0), resp.AsMap()["tier"])
}

func (s *HandlerTestSuite) TestRemoveItem() {
	s.mockService.EXPECT().
		RemoveItem(s.ctx, &saveedit.RemoveItemInput{SessionID: "s", Item: "ring:FIRE_01"}).
		Return(&saveedit.RemoveItemOutput{
			Target:   witchfire.Target{Category: witchfire.CategoryRing, Code: witchfire.ElementCode(witchfire.ElementFire, 1)},
			Removed:  inventory.Removed{Containers: 2, ResearchKeys: 1},
			Revision: 7,
		}, nil)

	resp, err := s.handler.RemoveItem(s.ctx, s.req(map[string]any{"session_id": "s", "item": "ring:FIRE_01"}))
	s.Require().NoError(err)

	removed := resp.AsMap()["removed"].(map[string]any)
	s.Equal(float64(3), removed["total"])
	s.Equal(float64(2), removed["containers"])
	s.Equal("ring:FIRE_01", resp.AsMap()["target"])
}

func (s *HandlerTestSuite) TestListInventory() {
	s.mockService.EXPECT().
		ListInventory(s.ctx, &saveedit.ListInventoryInput{SessionID: "s"}).
		Return(&saveedit.ListInventoryOutput{Entries: []inventory.Entry{{
			SlotID:    4,
			DetailsID: 4,
			Count:     1,
			Target:    witchfire.Target{Category: witchfire.CategoryWeapon, Code: witchfire.WeaponCode(witchfire.FamilyHandCannon, witchfire.WeightLight)},
			Rarity:    witchfire.RarityCommon,
			ItemID:    "weapon.flintlock_pistol",
		}}}, nil)

	resp, err := s.handler.ListInventory(s.ctx, s.req(map[string]any{"session_id": "s"}))
	s.Require().NoError(err)

	entries := resp.AsMap()["entries"].([]any)
	s.Require().Len(entries, 1)
	s.Equal("weapon.flintlock_pistol", entries[0].(map[string]any)["item_id"])
	s.Equal(false, entries[0].(map[string]any)["stashed"])
}

func (s *HandlerTestSuite) TestExportSession() {
	s.mockService.EXPECT().
		ExportSession(s.ctx, &saveedit.ExportSessionInput{SessionID: "s", Indent: true}).
		Return(&saveedit.ExportSessionOutput{Name: "slot.json", Document: []byte(`{"n":9007199254740993}`), Revision: 2}, nil)

	resp, err := s.handler.ExportSession(s.ctx, s.req(map[string]any{"session_id": "s", "indent": true}))
	s.Require().NoError(err)
	s.Equal(`{"n":9007199254740993}`, resp.AsMap()["document"])
}

func (s *HandlerTestSuite) TestExportSessionRejectsNonBooleanIndent() {
	_, err := s.handler.ExportSession(s.ctx, s.req(map[string]any{"session_id": "s", "indent": "yes"}))
	s.requireCode(err, codes.InvalidArgument)
}
