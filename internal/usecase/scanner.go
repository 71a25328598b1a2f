// Package usecase contains the business logic of the application.
package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/naka-gawa/github-dormant/internal/domain"
	"github.com/naka-gawa/github-dormant/internal/gateway"
)

// Summary counts what happened to each login during a scan.
type Summary struct {
	Scanned   int
	Dormant   int
	Active    int
	NotFound  int
	Malformed int
	Failed    int
	// Years holds the creation year of every dormant candidate, in input order.
	Years []int
}

// Scanner is the use case for finding dormant accounts.
// It walks the input one login at a time and never issues requests concurrently.
type Scanner struct {
	fetcher    gateway.Fetcher
	cutoffYear int
	logger     *zap.Logger
}

// NewScanner creates a new Scanner instance.
// A non-positive cutoffYear selects domain.DefaultCutoffYear.
func NewScanner(fetcher gateway.Fetcher, cutoffYear int, logger *zap.Logger) *Scanner {
	if cutoffYear <= 0 {
		cutoffYear = domain.DefaultCutoffYear
	}
	return &Scanner{
		fetcher:    fetcher,
		cutoffYear: cutoffYear,
		logger:     logger,
	}
}

// ScanFile opens path and scans it.
func (s *Scanner) ScanFile(ctx context.Context, path string) ([]domain.ExportRecord, *Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return s.Scan(ctx, f)
}

// Scan checks every login in r and returns the dormant ones in input order.
// Failures for a single login are logged and skipped; only input read errors
// and context cancellation abort the scan.
func (s *Scanner) Scan(ctx context.Context, r io.Reader) ([]domain.ExportRecord, *Summary, error) {
	logins, err := readLogins(r)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Starting scan", zap.Int("users", len(logins)), zap.Int("cutoff_year", s.cutoffYear))

	records := make([]domain.ExportRecord, 0)
	summary := &Summary{}
	for i, login := range logins {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		summary.Scanned++
		s.logger.Debug("Checking user",
			zap.String("progress", fmt.Sprintf("[%d/%d]", i+1, len(logins))),
			zap.String("login", login))

		candidate, err := s.evaluate(ctx, login)
		var queryErr *gateway.QueryError
		switch {
		case errors.As(err, &queryErr):
			summary.Failed++
			s.logger.Warn(queryErr.Error(), zap.String("login", login))
			continue
		case errors.Is(err, gateway.ErrUserNotFound):
			summary.NotFound++
			s.logger.Debug("User not found, skipping", zap.String("login", login))
			continue
		case errors.Is(err, domain.ErrMalformedRecord):
			summary.Malformed++
			s.logger.Debug("Incomplete user record, skipping", zap.String("login", login))
			continue
		case err != nil:
			summary.Failed++
			s.logger.Warn("Failed to fetch user", zap.String("login", login), zap.Error(err))
			continue
		}

		if !s.isDormant(candidate) {
			summary.Active++
			continue
		}
		summary.Dormant++
		summary.Years = append(summary.Years, candidate.CreatedYear)
		records = append(records, domain.NewExportRecord(login, candidate))
		s.logger.Debug("Found dormant user", zap.String("login", login), zap.Int("created_year", candidate.CreatedYear))
	}

	s.logger.Info("Scan complete",
		zap.Int("scanned", summary.Scanned),
		zap.Int("dormant", summary.Dormant),
		zap.Int("failed", summary.Failed))
	return records, summary, nil
}

func (s *Scanner) isDormant(c *domain.Candidate) bool {
	if s.cutoffYear == domain.DefaultCutoffYear {
		return c.IsDormant()
	}
	return c.CreatedBefore(s.cutoffYear) && c.IsInactive()
}

func (s *Scanner) evaluate(ctx context.Context, login string) (*domain.Candidate, error) {
	rec, err := s.fetcher.FetchUser(ctx, login)
	if err != nil {
		return nil, err
	}
	return domain.NewCandidate(rec)
}

// readLogins returns the trimmed, non-blank lines of r.
func readLogins(r io.Reader) ([]string, error) {
	var logins []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if login := strings.TrimSpace(sc.Text()); login != "" {
			logins = append(logins, login)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return logins, nil
}
