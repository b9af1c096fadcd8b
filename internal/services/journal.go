package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/types"
)

const (
	SourceStored     = "stored"
	SourceCalculated = "calculated"
)

// ResumeRow is one station's résumé for a day.
type ResumeRow struct {
	Poste         string  `json:"poste"`
	OFClotures    int     `json:"of_clotures"`
	OFEnCours     int     `json:"of_en_cours"`
	HeuresRendues float64 `json:"heures_rendues"`
}

// DailyReport is the journalier payload: the day's problem signals, their
// occurrence counts, and the résumé with its provenance. Source is always
// set so callers know whether they got a persisted snapshot (possibly stale)
// or a live computation.
type DailyReport struct {
	Date    string                      `json:"date"`
	Source  string                      `json:"source"`
	Resume  []ResumeRow                 `json:"resume"`
	Signals []*types.NotificationRecord `json:"signals"`
	Counts  map[string]int              `json:"counts"`
}

type SaveSummaryInput struct {
	Date       string
	Rows       []ResumeRow
	Source     string
	ImportedBy string
}

// JournalService serves the daily journalier report and the weekly recap.
type JournalService interface {
	GetDaily(ctx context.Context, date time.Time) (*DailyReport, error)
	SaveSummary(ctx context.Context, in SaveSummaryInput) error
	GetWeekly(ctx context.Context, isoYear, isoWeek int) ([]*types.WeeklyRecapSnapshot, error)
	SaveWeekly(ctx context.Context, rows []*types.WeeklyRecapSnapshot) error
}

type journalService struct {
	db               *gorm.DB
	log              *logger.Logger
	readinessRepo    repos.ReadinessRepo
	lineRepo         repos.WorkOrderLineRepo
	notificationRepo repos.NotificationRepo
	snapshotRepo     repos.SnapshotRepo
}

func NewJournalService(db *gorm.DB, log *logger.Logger, readinessRepo repos.ReadinessRepo, lineRepo repos.WorkOrderLineRepo, notificationRepo repos.NotificationRepo, snapshotRepo repos.SnapshotRepo) JournalService {
	return &journalService{
		db:               db,
		log:              log.With("service", "JournalService"),
		readinessRepo:    readinessRepo,
		lineRepo:         lineRepo,
		notificationRepo: notificationRepo,
		snapshotRepo:     snapshotRepo,
	}
}

// GetDaily prefers a persisted snapshot for the date and only computes the
// résumé live when none exists. Saving a snapshot is a manual action, so the
// stored and live values can diverge; the Source tag tells callers which one
// they got.
func (s *journalService) GetDaily(ctx context.Context, date time.Time) (*DailyReport, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	dateKey := dayStart.Format("2006-01-02")

	signals, err := s.notificationRepo.ListCreatedBetween(ctx, nil, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, sig := range signals {
		counts[string(sig.ProblemType)]++
	}

	report := &DailyReport{
		Date:    dateKey,
		Signals: signals,
		Counts:  counts,
	}

	stored, err := s.snapshotRepo.GetDaily(ctx, nil, dateKey)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		report.Source = SourceStored
		for _, snap := range stored {
			report.Resume = append(report.Resume, ResumeRow{
				Poste:         snap.Poste,
				OFClotures:    snap.OFClotures,
				OFEnCours:     snap.OFEnCours,
				HeuresRendues: snap.HeuresRendues,
			})
		}
		return report, nil
	}

	resume, err := s.computeResume(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	report.Source = SourceCalculated
	report.Resume = resume
	return report, nil
}

// computeResume aggregates live ledger state: per station, the orders closed
// that day, the orders currently started, and the planned hours rendered by
// the day's closures (operator-entered duree preferred over the planned
// duration).
func (s *journalService) computeResume(ctx context.Context, dayStart, dayEnd time.Time) ([]ResumeRow, error) {
	closed, err := s.readinessRepo.ListProductionValidatedBetween(ctx, nil, types.StatusClosed, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	started, err := s.readinessRepo.ListProductionByStatus(ctx, nil, types.StatusStarted)
	if err != nil {
		return nil, err
	}

	perPoste := make(map[string]*ResumeRow)
	row := func(poste string) *ResumeRow {
		if r, ok := perPoste[poste]; ok {
			return r
		}
		r := &ResumeRow{Poste: poste}
		perPoste[poste] = r
		return r
	}

	for _, rec := range closed {
		r := row(rec.Poste)
		r.OFClotures++
		hours := 0.0
		if rec.Duration != nil {
			hours = *rec.Duration
		} else {
			line, err := s.lineRepo.GetLive(ctx, nil, rec.Poste, rec.Ordre, rec.Sequence)
			if err != nil {
				return nil, err
			}
			if line != nil {
				hours = line.DurationHours
			}
		}
		r.HeuresRendues += hours
	}
	for _, rec := range started {
		row(rec.Poste).OFEnCours++
	}

	postes := make([]string, 0, len(perPoste))
	for poste := range perPoste {
		postes = append(postes, poste)
	}
	sort.Strings(postes)
	resume := make([]ResumeRow, 0, len(postes))
	for _, poste := range postes {
		resume = append(resume, *perPoste[poste])
	}
	return resume, nil
}

func (s *journalService) SaveSummary(ctx context.Context, in SaveSummaryInput) error {
	rows := make([]*types.DailyResumeSnapshot, 0, len(in.Rows))
	for _, r := range in.Rows {
		rows = append(rows, &types.DailyResumeSnapshot{
			ResumeDate:    in.Date,
			Poste:         r.Poste,
			OFClotures:    r.OFClotures,
			OFEnCours:     r.OFEnCours,
			HeuresRendues: r.HeuresRendues,
			Source:        in.Source,
			ImportedBy:    in.ImportedBy,
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.snapshotRepo.UpsertDaily(ctx, tx, rows)
	})
}

func (s *journalService) GetWeekly(ctx context.Context, isoYear, isoWeek int) ([]*types.WeeklyRecapSnapshot, error) {
	return s.snapshotRepo.GetWeekly(ctx, nil, isoYear, isoWeek)
}

func (s *journalService) SaveWeekly(ctx context.Context, rows []*types.WeeklyRecapSnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.snapshotRepo.UpsertWeekly(ctx, tx, rows)
	})
}
