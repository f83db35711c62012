package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	companyModel "github.com/festy23/company_insights/internal/company/model"
	companyRepository "github.com/festy23/company_insights/internal/company/repository"
	"github.com/festy23/company_insights/internal/companyrequest/model"
	"github.com/festy23/company_insights/internal/companyrequest/repository"
	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/enrichment"
	"github.com/festy23/company_insights/internal/workflow"
)

// recordingDispatcher keeps tasks so tests decide when background work runs.
type recordingDispatcher struct {
	mu    sync.Mutex
	names []string
	tasks []dispatch.Task
	err   error
}

func (d *recordingDispatcher) Dispatch(name string, task dispatch.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.names = append(d.names, name)
	d.tasks = append(d.tasks, task)
	return nil
}

func (d *recordingDispatcher) runAll(t *testing.T) []error {
	t.Helper()
	d.mu.Lock()
	tasks := d.tasks
	d.tasks = nil
	d.mu.Unlock()

	var errs []error
	for _, task := range tasks {
		errs = append(errs, task(context.Background()))
	}
	return errs
}

func (d *recordingDispatcher) take(t *testing.T) dispatch.Task {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.tasks)
	task := d.tasks[0]
	d.tasks = d.tasks[1:]
	return task
}

type fixture struct {
	db         *gorm.DB
	svc        Service
	repo       repository.Repository
	companies  companyRepository.Repository
	dispatcher *recordingDispatcher
}

func strPtr(s string) *string {
	return &s
}

func setup(t *testing.T, enricher enrichment.Enricher) *fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.CompanyRequest{}, &companyModel.Company{}))

	logger := zap.NewNop().Sugar()
	repo := repository.New(db, logger)
	companies := companyRepository.New(db, logger)
	dispatcher := &recordingDispatcher{}

	return &fixture{
		db:         db,
		svc:        New(repo, companies, enricher, dispatcher, logger),
		repo:       repo,
		companies:  companies,
		dispatcher: dispatcher,
	}
}

func (f *fixture) status(t *testing.T, id int64) model.Status {
	t.Helper()
	req, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return req.Status
}

func (f *fixture) seed(t *testing.T, status model.Status) *model.CompanyRequest {
	t.Helper()
	req := &model.CompanyRequest{UserID: 10, CompanyName: "Acme Corp", Status: status}
	require.NoError(t, f.repo.Create(context.Background(), req))
	return req
}

func (f *fixture) backdate(t *testing.T, id int64, age time.Duration) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.CompanyRequest{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().Add(-age)).Error)
}

func (f *fixture) companyCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&companyModel.Company{}).Count(&n).Error)
	return n
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("trims name and creates pending request", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})

		req, err := f.svc.Submit(ctx, 10, "  Acme Corp  ")

		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", req.CompanyName)
		assert.Equal(t, model.StatusPending, req.Status)
		assert.Equal(t, int64(10), req.UserID)
		assert.Empty(t, f.dispatcher.names)
	})

	t.Run("whitespace only name", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})

		req, err := f.svc.Submit(ctx, 10, " \t ")

		assert.Nil(t, req)
		assert.ErrorIs(t, err, workflow.ErrValidation)
	})

	t.Run("name too long", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		long := make([]byte, model.MaxCompanyNameLength+1)
		for i := range long {
			long[i] = 'a'
		}

		_, err := f.svc.Submit(ctx, 10, string(long))

		assert.ErrorIs(t, err, workflow.ErrValidation)
	})
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()

	for _, from := range []model.Status{model.StatusPending, model.StatusFailed} {
		t.Run("from "+string(from), func(t *testing.T) {
			f := setup(t, enrichment.StaticEnricher{})
			req := f.seed(t, from)

			got, err := f.svc.Approve(ctx, req.ID, 1)

			require.NoError(t, err)
			assert.Equal(t, model.StatusProcessing, got.Status)
			assert.Equal(t, model.StatusProcessing, f.status(t, req.ID))
			assert.Len(t, f.dispatcher.names, 1)
			assert.Equal(t, int64(0), f.companyCount(t), "enrichment must not run synchronously")
		})
	}

	for _, from := range []model.Status{model.StatusProcessing, model.StatusApproved, model.StatusRejected} {
		t.Run("conflict from "+string(from), func(t *testing.T) {
			f := setup(t, enrichment.StaticEnricher{})
			req := f.seed(t, from)

			got, err := f.svc.Approve(ctx, req.ID, 1)

			assert.Nil(t, got)
			assert.ErrorIs(t, err, workflow.ErrConflict)
			current, ok := workflow.CurrentStatus(err)
			assert.True(t, ok)
			assert.Equal(t, string(from), current)
			assert.Equal(t, from, f.status(t, req.ID))
			assert.Empty(t, f.dispatcher.names)
		})
	}

	t.Run("not found", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})

		_, err := f.svc.Approve(ctx, 404, 1)

		assert.ErrorIs(t, err, workflow.ErrNotFound)
	})

	t.Run("concurrent approvals have one winner", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		req := f.seed(t, model.StatusPending)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.Approve(ctx, req.ID, int64(i+1))
			}(i)
		}
		wg.Wait()

		var wins, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, workflow.ErrConflict):
				conflicts++
				current, _ := workflow.CurrentStatus(err)
				assert.Equal(t, string(model.StatusProcessing), current)
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, 1, conflicts)
		assert.Len(t, f.dispatcher.names, 1)
	})

	t.Run("dispatch failure marks request failed", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		f.dispatcher.err = dispatch.ErrQueueFull
		req := f.seed(t, model.StatusPending)

		got, err := f.svc.Approve(ctx, req.ID, 1)

		require.NoError(t, err)
		assert.Equal(t, model.StatusFailed, got.Status)
		assert.Equal(t, model.StatusFailed, f.status(t, req.ID))
	})

	t.Run("failed dispatch can be approved again", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		req := f.seed(t, model.StatusPending)

		f.dispatcher.err = dispatch.ErrClosed
		_, err := f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)

		f.dispatcher.err = nil
		got, err := f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, model.StatusProcessing, got.Status)

		errs := f.dispatcher.runAll(t)
		require.Len(t, errs, 1)
		assert.NoError(t, errs[0])
		assert.Equal(t, model.StatusApproved, f.status(t, req.ID))
	})
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("pending", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		req := f.seed(t, model.StatusPending)

		got, err := f.svc.Reject(ctx, req.ID, 1)

		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, got.Status)
		assert.Equal(t, model.StatusRejected, f.status(t, req.ID))
		assert.Empty(t, f.dispatcher.names)
	})

	t.Run("failed cannot be rejected", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		req := f.seed(t, model.StatusFailed)

		_, err := f.svc.Reject(ctx, req.ID, 1)

		assert.ErrorIs(t, err, workflow.ErrConflict)
		assert.Equal(t, model.StatusFailed, f.status(t, req.ID))
	})

	t.Run("not found", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})

		_, err := f.svc.Reject(ctx, 404, 1)

		assert.ErrorIs(t, err, model.ErrRequestNotFound)
	})
}

func TestService_RunEnrichment(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip creates company", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{Data: &enrichment.FetchedCompanyData{
			Name:        strPtr("Acme Corp"),
			Description: strPtr("Makes anvils"),
			Website:     strPtr("https://acme.example"),
		}})

		req, err := f.svc.Submit(ctx, 10, "Acme Corp")
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)

		errs := f.dispatcher.runAll(t)

		require.Len(t, errs, 1)
		assert.NoError(t, errs[0])
		assert.Equal(t, model.StatusApproved, f.status(t, req.ID))

		company, err := f.companies.GetBySlug(ctx, "acme-corp")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", company.Name)
		assert.Equal(t, "Makes anvils", *company.Description)
		assert.Equal(t, companyModel.Placeholder, *company.Headquarters)
		assert.Equal(t, companyModel.Placeholder, company.PrimaryRevenue)
		assert.Equal(t, companyModel.Placeholder, company.BusinessModel)
		assert.Equal(t, "{}", company.RevenueBreakdown)
		assert.Nil(t, company.Logo)
		require.NotNil(t, company.RequestedByUserID)
		assert.Equal(t, int64(10), *company.RequestedByUserID)
	})

	t.Run("slug derived from enriched name", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{Data: &enrichment.FetchedCompanyData{
			Name: strPtr("Acme Corporation"),
		}})
		req := f.seed(t, model.StatusProcessing)

		require.NoError(t, f.svc.RunEnrichment(ctx, req.ID))

		_, err := f.companies.GetBySlug(ctx, "acme-corporation")
		assert.NoError(t, err)
	})

	t.Run("existing slug is an idempotent skip", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		require.NoError(t, f.companies.Create(ctx, &companyModel.Company{
			Name: "Acme Corp", Slug: "acme-corp", PrimaryRevenue: "x", RevenueBreakdown: "{}", BusinessModel: "y",
		}))
		req := f.seed(t, model.StatusProcessing)

		err := f.svc.RunEnrichment(ctx, req.ID)

		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, f.status(t, req.ID))
		assert.Equal(t, int64(1), f.companyCount(t))
	})

	t.Run("not processing is a no-op", func(t *testing.T) {
		calls := 0
		f := setup(t, enrichment.EnricherFunc(func(context.Context, string, string) (*enrichment.FetchedCompanyData, error) {
			calls++
			return &enrichment.FetchedCompanyData{}, nil
		}))
		req := f.seed(t, model.StatusPending)

		err := f.svc.RunEnrichment(ctx, req.ID)

		require.NoError(t, err)
		assert.Zero(t, calls)
		assert.Equal(t, model.StatusPending, f.status(t, req.ID))
		assert.Equal(t, int64(0), f.companyCount(t))
	})

	t.Run("enrichment failure marks failed", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{Err: enrichment.Failure("enrich", errors.New("timeout"))})
		req := f.seed(t, model.StatusProcessing)

		err := f.svc.RunEnrichment(ctx, req.ID)

		assert.ErrorIs(t, err, workflow.ErrEnrichment)
		assert.Equal(t, model.StatusFailed, f.status(t, req.ID))
		assert.Equal(t, int64(0), f.companyCount(t))
	})

	t.Run("empty slug marks failed", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{Data: &enrichment.FetchedCompanyData{Name: strPtr("???")}})
		req := f.seed(t, model.StatusProcessing)

		err := f.svc.RunEnrichment(ctx, req.ID)

		assert.ErrorIs(t, err, workflow.ErrValidation)
		assert.Equal(t, model.StatusFailed, f.status(t, req.ID))
	})

	t.Run("panic still writes failed", func(t *testing.T) {
		f := setup(t, enrichment.EnricherFunc(func(context.Context, string, string) (*enrichment.FetchedCompanyData, error) {
			panic("enricher bug")
		}))
		req := f.seed(t, model.StatusProcessing)

		assert.Panics(t, func() { _ = f.svc.RunEnrichment(ctx, req.ID) })
		assert.Equal(t, model.StatusFailed, f.status(t, req.ID))
	})

	t.Run("retry after failure", func(t *testing.T) {
		attempts := 0
		f := setup(t, enrichment.EnricherFunc(func(_ context.Context, name, _ string) (*enrichment.FetchedCompanyData, error) {
			attempts++
			if attempts == 1 {
				return nil, enrichment.Failure("enrich", errors.New("flaky"))
			}
			return &enrichment.FetchedCompanyData{Name: &name}, nil
		}))
		req := f.seed(t, model.StatusPending)

		_, err := f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)
		f.dispatcher.runAll(t)
		assert.Equal(t, model.StatusFailed, f.status(t, req.ID))

		_, err = f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)
		f.dispatcher.runAll(t)
		assert.Equal(t, model.StatusApproved, f.status(t, req.ID))
		assert.Equal(t, int64(1), f.companyCount(t))
	})

	t.Run("swept run cannot finish the next attempt", func(t *testing.T) {
		var calls atomic.Int32
		started := make(chan struct{})
		release := make(chan struct{})
		f := setup(t, enrichment.EnricherFunc(func(_ context.Context, name, _ string) (*enrichment.FetchedCompanyData, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-release
				return nil, enrichment.Failure("enrich", errors.New("deadline exceeded"))
			}
			return &enrichment.FetchedCompanyData{Name: &name}, nil
		}))
		req := f.seed(t, model.StatusPending)

		_, err := f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)
		first := f.dispatcher.take(t)
		done := make(chan error, 1)
		go func() { done <- first(ctx) }()
		<-started

		f.backdate(t, req.ID, time.Hour)
		n, err := f.svc.FailStale(ctx, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, model.StatusProcessing, got.Status)

		close(release)
		assert.ErrorIs(t, <-done, workflow.ErrEnrichment)
		assert.Equal(t, model.StatusProcessing, f.status(t, req.ID), "old run must not fail the new attempt")

		require.NoError(t, f.dispatcher.take(t)(ctx))
		assert.Equal(t, model.StatusApproved, f.status(t, req.ID))
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, int64(1), f.companyCount(t))
	})

	t.Run("queued task for a swept attempt is skipped", func(t *testing.T) {
		var calls atomic.Int32
		f := setup(t, enrichment.EnricherFunc(func(_ context.Context, name, _ string) (*enrichment.FetchedCompanyData, error) {
			calls.Add(1)
			return &enrichment.FetchedCompanyData{Name: &name}, nil
		}))
		req := f.seed(t, model.StatusPending)

		_, err := f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)
		f.backdate(t, req.ID, time.Hour)
		_, err = f.svc.FailStale(ctx, 30*time.Minute)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)

		stale := f.dispatcher.take(t)
		require.NoError(t, stale(ctx))
		assert.Zero(t, calls.Load())
		assert.Equal(t, model.StatusProcessing, f.status(t, req.ID))

		require.NoError(t, f.dispatcher.take(t)(ctx))
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, model.StatusApproved, f.status(t, req.ID))
	})

	t.Run("started attempt is not run twice", func(t *testing.T) {
		var calls atomic.Int32
		f := setup(t, enrichment.EnricherFunc(func(_ context.Context, name, _ string) (*enrichment.FetchedCompanyData, error) {
			calls.Add(1)
			return &enrichment.FetchedCompanyData{Name: &name}, nil
		}))
		req := f.seed(t, model.StatusPending)
		_, err := f.svc.Approve(ctx, req.ID, 1)
		require.NoError(t, err)

		current, err := f.repo.GetByID(ctx, req.ID)
		require.NoError(t, err)
		claimed, err := f.repo.ClaimAttempt(ctx, req.ID, current.Attempt)
		require.NoError(t, err)
		require.True(t, claimed)

		require.NoError(t, f.dispatcher.take(t)(ctx))
		assert.Zero(t, calls.Load())
		assert.Equal(t, model.StatusProcessing, f.status(t, req.ID))
	})
}

func TestService_ListAll(t *testing.T) {
	ctx := context.Background()
	f := setup(t, enrichment.StaticEnricher{})
	f.seed(t, model.StatusPending)
	f.seed(t, model.StatusFailed)

	all, err := f.svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := f.svc.ListAll(ctx, "failed")
	require.NoError(t, err)
	assert.Len(t, failed, 1)

	_, err = f.svc.ListAll(ctx, "bogus")
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes pending request", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		req := f.seed(t, model.StatusPending)

		require.NoError(t, f.svc.Delete(ctx, req.ID, 10))

		_, err := f.svc.Get(ctx, req.ID)
		assert.ErrorIs(t, err, model.ErrRequestNotFound)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		req := f.seed(t, model.StatusPending)

		err := f.svc.Delete(ctx, req.ID, 11)

		assert.ErrorIs(t, err, model.ErrRequestNotFound)
	})

	t.Run("processing request conflicts", func(t *testing.T) {
		f := setup(t, enrichment.StaticEnricher{})
		req := f.seed(t, model.StatusProcessing)

		err := f.svc.Delete(ctx, req.ID, 10)

		assert.ErrorIs(t, err, workflow.ErrConflict)
		assert.Equal(t, model.StatusProcessing, f.status(t, req.ID))
	})
}

func TestService_FailStale(t *testing.T) {
	ctx := context.Background()
	f := setup(t, enrichment.StaticEnricher{})
	req := f.seed(t, model.StatusProcessing)
	f.backdate(t, req.ID, time.Hour)

	n, err := f.svc.FailStale(ctx, 30*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.StatusFailed, f.status(t, req.ID))
}
