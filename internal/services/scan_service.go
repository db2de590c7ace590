package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"threatlens/internal/dao"
	"threatlens/internal/intel"
	"threatlens/internal/models"
	"threatlens/internal/notification"
	apperrors "threatlens/pkg/errors"
	"threatlens/pkg/logger"
)

// ScanProvider is the boundary to the external reputation service. Submit
// starts one analysis; FetchAnalysis reads its current state without
// side effects.
type ScanProvider interface {
	Submit(ctx context.Context, target string) (string, error)
	FetchAnalysis(ctx context.Context, analysisID string) (*intel.AnalysisSnapshot, error)
	LookupFileHash(ctx context.Context, hash string) (*intel.AnalysisSnapshot, error)
}

// Notifier pushes verdict alerts. Satisfied by notification.AlertClient.
type Notifier interface {
	Send(alert notification.Alert) error
}

// PollPolicy bounds the poll loop. It is a tunable, not a contract: the
// defaults mirror the provider's typical analysis latency.
type PollPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		MaxAttempts: 5,
		Delay:       3 * time.Second,
	}
}

// sleeper lets tests drive the poll loop without wall-clock waits.
type sleeper interface {
	sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type ScanServiceMethods interface {
	ExecuteScan(ctx context.Context, target, owner string) (*models.ScanRecord, error)
	ScanFileHash(ctx context.Context, hash, owner string) (*models.ScanRecord, error)
	History(owner string) ([]models.ScanRecord, error)
	Report(id string) (*models.ScanRecord, error)
}

type scanService struct {
	scanDao  dao.ScanRecordDAO
	provider ScanProvider
	policy   PollPolicy
	sleeper  sleeper
	notifier Notifier
	logger   *logger.Logger
}

type ScanOption func(*scanService)

func WithPollPolicy(policy PollPolicy) ScanOption {
	return func(s *scanService) { s.policy = policy }
}

func WithNotifier(notifier Notifier) ScanOption {
	return func(s *scanService) { s.notifier = notifier }
}

func withSleeper(sl sleeper) ScanOption {
	return func(s *scanService) { s.sleeper = sl }
}

func NewScanService(scanDao dao.ScanRecordDAO, provider ScanProvider, opts ...ScanOption) ScanServiceMethods {
	s := &scanService{
		scanDao:  scanDao,
		provider: provider,
		policy:   DefaultPollPolicy(),
		sleeper:  realSleeper{},
		logger:   logger.NewLogger(logrus.InfoLevel),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExecuteScan drives one URL scan from submission to a persisted record.
// Submission happens exactly once per call; polling is bounded by the
// policy. A scan that is still processing when the budget runs out is not
// an error: the record carries the last observed status and the client can
// re-check the report later.
func (s *scanService) ExecuteScan(ctx context.Context, target, owner string) (*models.ScanRecord, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, apperrors.NewInputError("owner", "must not be empty")
	}

	// Submission may create a new analysis on the provider side, so it is
	// never retried.
	analysisID, err := s.provider.Submit(ctx, target)
	if err != nil {
		s.logger.WithFields(logger.Fields{"target": target, "error": err}).Error("Scan submission failed")
		return nil, err
	}

	s.logger.WithFields(logger.Fields{"target": target, "analysis_id": analysisID}).Info("Scan submitted, polling analysis")

	snap, pollErr := s.poll(ctx, analysisID)
	if pollErr != nil && snap == nil {
		return nil, pollErr
	}
	// A cancelled poll with a snapshot in hand still produces a record:
	// the submission already happened and its last known state is worth
	// keeping.

	record := buildRecord(target, models.ScanKindURL, owner, snap)
	if err := s.scanDao.Insert(record); err != nil {
		return nil, err
	}

	s.alertIfMalicious(record)
	return record, nil
}

// poll fetches the analysis until it reaches a terminal state or the
// attempt budget runs out. Fetch faults consume attempts like any other;
// only a budget exhausted without a single successful fetch is reported as
// a provider failure.
func (s *scanService) poll(ctx context.Context, analysisID string) (*intel.AnalysisSnapshot, error) {
	var last *intel.AnalysisSnapshot

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		snap, err := s.provider.FetchAnalysis(ctx, analysisID)
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			s.logger.WithFields(logger.Fields{
				"analysis_id": analysisID,
				"attempt":     attempt,
				"error":       err,
			}).Warn("Analysis fetch failed")

			if attempt == s.policy.MaxAttempts {
				if last == nil {
					return nil, err
				}
				return last, nil
			}
			if serr := s.sleeper.sleep(ctx, s.policy.Delay); serr != nil {
				return last, serr
			}
			continue
		}

		last = snap
		if snap.Status.Terminal() {
			return snap, nil
		}
		if attempt == s.policy.MaxAttempts {
			break
		}

		delay := s.policy.Delay
		if snap.RetryAfter > 0 {
			delay = snap.RetryAfter
		}
		if serr := s.sleeper.sleep(ctx, delay); serr != nil {
			return last, serr
		}
	}

	return last, nil
}

// ScanFileHash looks up an existing file report by hash. The provider
// answers hash lookups synchronously, so there is no poll loop here.
func (s *scanService) ScanFileHash(ctx context.Context, hash, owner string) (*models.ScanRecord, error) {
	if !hashPattern.MatchString(hash) {
		return nil, apperrors.NewInputError("hash", "must be an MD5, SHA-1 or SHA-256 hex digest")
	}
	if owner == "" {
		return nil, apperrors.NewInputError("owner", "must not be empty")
	}

	snap, err := s.provider.LookupFileHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	record := buildRecord(hash, models.ScanKindFile, owner, snap)
	if err := s.scanDao.Insert(record); err != nil {
		return nil, err
	}

	s.alertIfMalicious(record)
	return record, nil
}

func (s *scanService) History(owner string) ([]models.ScanRecord, error) {
	return s.scanDao.ListByOwner(owner)
}

// Report finds a record by id, falling back to the most recent record for
// the given target.
func (s *scanService) Report(id string) (*models.ScanRecord, error) {
	record, err := s.scanDao.FindByID(id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.scanDao.FindLatestByTarget(id)
	}
	return record, err
}

func (s *scanService) alertIfMalicious(record *models.ScanRecord) {
	if s.notifier == nil || record.Status != string(intel.StatusCompleted) {
		return
	}
	hits := record.MaliciousCount()
	if hits == 0 {
		return
	}

	err := s.notifier.Send(notification.Alert{
		Title:       "Malicious target detected",
		Description: record.Target,
		Severity:    "high",
		Fields: map[string]string{
			"scan_id":   record.ID,
			"owner":     record.Owner,
			"malicious": fmt.Sprintf("%d", hits),
		},
	})
	if err != nil {
		s.logger.WithFields(logger.Fields{"scan_id": record.ID, "error": err}).Warn("Failed to send verdict alert")
	}
}

var hashPattern = regexp.MustCompile(`^[A-Fa-f0-9]{32}$|^[A-Fa-f0-9]{40}$|^[A-Fa-f0-9]{64}$`)

func validateTarget(target string) error {
	if target == "" {
		return apperrors.NewInputError("url", "must not be empty")
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewInputError("url", "must be an absolute URL with scheme and host")
	}
	return nil
}

func buildRecord(target, kind, owner string, snap *intel.AnalysisSnapshot) *models.ScanRecord {
	record := &models.ScanRecord{
		ID:     uuid.New().String(),
		Target: target,
		Kind:   kind,
		Owner:  owner,
	}
	if snap == nil {
		record.Status = string(intel.StatusQueued)
		return record
	}
	record.AnalysisID = snap.AnalysisID
	record.Status = string(snap.Status)
	record.Stats = snap.Stats
	if snap.Results != nil {
		record.Results = snap.Results
	}
	return record
}
