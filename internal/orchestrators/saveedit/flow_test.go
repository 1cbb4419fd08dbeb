package saveedit_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/orchestrators/saveedit"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/clock"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/idgen"
	savesession "github.com/KirkDiggler/witchfire-saves/internal/repositories/save_session"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
	"github.com/KirkDiggler/witchfire-saves/internal/testutils/builders"
)

// FlowTestSuite drives the orchestrator against a real in-memory store
type FlowTestSuite struct {
	suite.Suite
	catalog *catalog.Catalog
	repo    *savesession.InMemoryRepository
	orch    saveedit.Service
	ctx     context.Context
	id      string
}

func (s *FlowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.catalog = catalog.MustDefault()

	repo, err := savesession.NewInMemory(&savesession.InMemoryConfig{
		Clock: &clock.Fixed{At: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)},
	})
	s.Require().NoError(err)
	s.repo = repo

	orch, err := saveedit.NewOrchestrator(&saveedit.Config{
		SessionRepo: repo,
		Engine:      newEngine(&s.Suite, s.catalog),
		Catalog:     s.catalog,
		IDGenerator: idgen.NewSequential("sess"),
	})
	s.Require().NoError(err)
	s.orch = orch

	out, err := s.orch.OpenSession(s.ctx, &saveedit.OpenSessionInput{
		Name:     "slot2.json",
		Document: builders.NewSaveBuilder().WithStat("Arcana", 5).JSON(),
	})
	s.Require().NoError(err)
	s.id = out.Session.ID
}

func (s *FlowTestSuite) count(item string) int {
	out, err := s.orch.CountInInventory(s.ctx, &saveedit.CountInput{SessionID: s.id, Item: item})
	s.Require().NoError(err)
	return out.Count
}

func (s *FlowTestSuite) TestAddTierRemoveReset() {
	added, err := s.orch.AddItem(s.ctx, &saveedit.AddItemInput{SessionID: s.id, ItemID: flintlock})
	s.Require().NoError(err)
	s.Equal(int64(1), added.Added.ID)
	s.Equal(witchfire.RarityCommon, added.Added.Rarity)
	s.Equal(1, s.count(flintlock))

	counted, err := s.orch.CountInInventory(s.ctx, &saveedit.CountInput{SessionID: s.id, Item: flintlock})
	s.Require().NoError(err)
	s.True(counted.Researched)

	tier, err := s.orch.SetTier(s.ctx, &saveedit.SetTierInput{SessionID: s.id, Item: flintlock, Tier: 9})
	s.Require().NoError(err)
	s.Equal(3, tier.Tier)

	got, err := s.orch.GetTier(s.ctx, &saveedit.GetTierInput{SessionID: s.id, Item: "weapon:HandCannon.Light"})
	s.Require().NoError(err)
	s.Equal(3, got.Tier)

	list, err := s.orch.ListInventory(s.ctx, &saveedit.ListInventoryInput{SessionID: s.id})
	s.Require().NoError(err)
	s.Require().Len(list.Entries, 1)
	s.Equal(catalog.ItemID(flintlock), list.Entries[0].ItemID)

	removed, err := s.orch.RemoveItem(s.ctx, &saveedit.RemoveItemInput{SessionID: s.id, Item: flintlock})
	s.Require().NoError(err)
	s.Positive(removed.Removed.Total())
	s.Equal(0, s.count(flintlock))

	// removing the only added item restores the upload
	info, err := s.orch.GetSession(s.ctx, &saveedit.GetSessionInput{SessionID: s.id})
	s.Require().NoError(err)
	s.False(info.Session.Modified)
	s.Equal("slot2.json", info.Session.Name)

	_, err = s.orch.AddItem(s.ctx, &saveedit.AddItemInput{SessionID: s.id, ItemID: flintlock})
	s.Require().NoError(err)

	info, err = s.orch.GetSession(s.ctx, &saveedit.GetSessionInput{SessionID: s.id})
	s.Require().NoError(err)
	s.True(info.Session.Modified)

	reset, err := s.orch.ResetSession(s.ctx, &saveedit.ResetSessionInput{SessionID: s.id})
	s.Require().NoError(err)
	s.Equal(info.Session.Revision+1, reset.Revision)

	info, err = s.orch.GetSession(s.ctx, &saveedit.GetSessionInput{SessionID: s.id})
	s.Require().NoError(err)
	s.False(info.Session.Modified)
}

func (s *FlowTestSuite) TestIndentedUploadUnmodifiedAfterUndo() {
	indented, err := json.MarshalIndent(builders.NewSaveBuilder().WithStat("Arcana", 5).Build(), "", "    ")
	s.Require().NoError(err)

	opened, err := s.orch.OpenSession(s.ctx, &saveedit.OpenSessionInput{Name: "pretty.json", Document: indented})
	s.Require().NoError(err)
	id := opened.Session.ID

	_, err = s.orch.AddItem(s.ctx, &saveedit.AddItemInput{SessionID: id, ItemID: flintlock})
	s.Require().NoError(err)

	info, err := s.orch.GetSession(s.ctx, &saveedit.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.True(info.Session.Modified)

	_, err = s.orch.RemoveItem(s.ctx, &saveedit.RemoveItemInput{SessionID: id, Item: flintlock})
	s.Require().NoError(err)

	info, err = s.orch.GetSession(s.ctx, &saveedit.GetSessionInput{SessionID: id})
	s.Require().NoError(err)
	s.False(info.Session.Modified)
	s.Equal(int64(3), info.Session.Revision)
}

func (s *FlowTestSuite) TestResetDiscardsEdits() {
	_, err := s.orch.AddItem(s.ctx, &saveedit.AddItemInput{SessionID: s.id, ItemID: flintlock})
	s.Require().NoError(err)

	_, err = s.orch.ResetSession(s.ctx, &saveedit.ResetSessionInput{SessionID: s.id})
	s.Require().NoError(err)
	s.Equal(0, s.count(flintlock))
}

func (s *FlowTestSuite) TestExport() {
	_, err := s.orch.AddItem(s.ctx, &saveedit.AddItemInput{SessionID: s.id, ItemID: flintlock})
	s.Require().NoError(err)

	compact, err := s.orch.ExportSession(s.ctx, &saveedit.ExportSessionInput{SessionID: s.id})
	s.Require().NoError(err)
	s.Equal("slot2.json", compact.Name)

	indented, err := s.orch.ExportSession(s.ctx, &saveedit.ExportSessionInput{SessionID: s.id, Indent: true})
	s.Require().NoError(err)
	s.JSONEq(string(compact.Document), string(indented.Document))
	s.Greater(len(indented.Document), len(compact.Document))

	doc, err := savedoc.Parse(compact.Document)
	s.Require().NoError(err)
	s.Len(doc.Lookup(savedoc.ItemContainers).Array(savedoc.ItemContainers).Records(), 1)
}

func (s *FlowTestSuite) TestConcurrentAddsGetDistinctIDs() {
	const adds = 12

	var wg sync.WaitGroup
	ids := make(chan int64, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := s.orch.AddItem(s.ctx, &saveedit.AddItemInput{SessionID: s.id, ItemID: flintlock})
			if err != nil {
				s.T().Error(err)
				return
			}
			ids <- out.Added.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		s.False(seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	s.Len(seen, adds)
	s.Equal(adds, s.count(flintlock))
}

func (s *FlowTestSuite) TestCloseSession() {
	_, err := s.orch.CloseSession(s.ctx, &saveedit.CloseSessionInput{SessionID: s.id})
	s.Require().NoError(err)
	s.Equal(0, s.repo.Len())

	_, err = s.orch.ExportSession(s.ctx, &saveedit.ExportSessionInput{SessionID: s.id})
	s.True(errors.IsNotFound(err))

	_, err = s.orch.CloseSession(s.ctx, &saveedit.CloseSessionInput{SessionID: s.id})
	s.True(errors.IsNotFound(err))
}

func (s *FlowTestSuite) TestSetResearched() {
	ring := s.catalog.Items(witchfire.CategoryRing)[0]

	_, err := s.orch.SetResearched(s.ctx, &saveedit.SetResearchedInput{SessionID: s.id, Item: string(ring.ID), Researched: true})
	s.Require().NoError(err)

	out, err := s.orch.CountInInventory(s.ctx, &saveedit.CountInput{SessionID: s.id, Item: string(ring.ID)})
	s.Require().NoError(err)
	s.True(out.Researched)
	s.Zero(out.Count)

	_, err = s.orch.SetResearched(s.ctx, &saveedit.SetResearchedInput{SessionID: s.id, Item: ring.Target().String()})
	s.Require().NoError(err)

	out, err = s.orch.CountInInventory(s.ctx, &saveedit.CountInput{SessionID: s.id, Item: string(ring.ID)})
	s.Require().NoError(err)
	s.False(out.Researched)
}

func (s *FlowTestSuite) TestListCatalog() {
	all, err := s.orch.ListCatalog(s.ctx, &saveedit.ListCatalogInput{})
	s.Require().NoError(err)

	rings, err := s.orch.ListCatalog(s.ctx, &saveedit.ListCatalogInput{Category: string(witchfire.CategoryRing)})
	s.Require().NoError(err)
	s.NotEmpty(rings.Items)
	s.Less(len(rings.Items), len(all.Items))
	for _, item := range rings.Items {
		s.Equal(witchfire.CategoryRing, item.Category)
	}
}

func (s *FlowTestSuite) TestEditsOnSeparateSessions() {
	ids := []string{s.id}
	for i := 0; i < 2; i++ {
		out, err := s.orch.OpenSession(s.ctx, &saveedit.OpenSessionInput{Document: []byte(`{}`)})
		s.Require().NoError(err)
		ids = append(ids, out.Session.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := s.orch.AddItem(s.ctx, &saveedit.AddItemInput{SessionID: id, ItemID: flintlock})
				s.NoError(err)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		out, err := s.orch.CountInInventory(s.ctx, &saveedit.CountInput{SessionID: id, Item: flintlock})
		s.Require().NoError(err)
		s.Equal(5, out.Count, id)
	}
}

func TestFlowTestSuite(t *testing.T) {
	suite.Run(t, new(FlowTestSuite))
}
