package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"adminplatform/internal/provisioner"
	"adminplatform/internal/repositories"
)

// AuditReport lists the two sides of a registry/schema mismatch: schemas
// nobody points at, and rows pointing at schemas that no longer exist.
type AuditReport struct {
	OrphanedSchemas []string
	MissingSchemas  []string
}

func (r AuditReport) Clean() bool {
	return len(r.OrphanedSchemas) == 0 && len(r.MissingSchemas) == 0
}

// SchemaAudit periodically compares provisioned schemas with the registry.
// It reports only; repair after a partial failure is an operator decision,
// never an automatic retry.
type SchemaAudit struct {
	scheduler gocron.Scheduler
	prov      provisioner.Provisioner
	repo      repositories.TenantRepository
	log       *zap.Logger
}

func NewSchemaAudit(prov provisioner.Provisioner, repo repositories.TenantRepository,
	log *zap.Logger) (*SchemaAudit, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &SchemaAudit{scheduler: scheduler, prov: prov, repo: repo, log: log}, nil
}

// Start schedules the audit at the given interval.
func (a *SchemaAudit) Start(interval time.Duration) error {
	_, err := a.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := a.Run(ctx); err != nil {
				a.log.Error("schema audit failed", zap.Error(err))
			}
		}),
	)
	if err != nil {
		return err
	}

	a.scheduler.Start()
	a.log.Info("schema audit scheduled", zap.Duration("interval", interval))
	return nil
}

func (a *SchemaAudit) Stop() error {
	return a.scheduler.Shutdown()
}

// Run executes one audit pass and logs every inconsistency it finds.
func (a *SchemaAudit) Run(ctx context.Context) (AuditReport, error) {
	schemas, err := a.prov.ListTenantSchemas(ctx)
	if err != nil {
		return AuditReport{}, err
	}

	tenants, err := a.repo.List(ctx)
	if err != nil {
		return AuditReport{}, err
	}

	registered := make(map[string]int64, len(tenants))
	for _, t := range tenants {
		if t.Esquema != "" {
			registered[t.Esquema] = t.ID
		}
	}

	existing := make(map[string]bool, len(schemas))
	for _, name := range schemas {
		existing[name] = true
	}

	var report AuditReport
	for _, name := range schemas {
		if _, ok := registered[name]; !ok {
			report.OrphanedSchemas = append(report.OrphanedSchemas, name)
			a.log.Error("orphaned tenant schema: no registry row points at it",
				zap.String("schema", name), zap.Bool("partial_failure", true))
		}
	}
	for name, id := range registered {
		if !existing[name] {
			report.MissingSchemas = append(report.MissingSchemas, name)
			a.log.Error("registry row points at a missing schema",
				zap.String("schema", name), zap.Int64("tenant_id", id),
				zap.Bool("partial_failure", true))
		}
	}

	if report.Clean() {
		a.log.Debug("schema audit clean",
			zap.Int("schemas", len(schemas)), zap.Int("tenants", len(tenants)))
	}
	return report, nil
}
