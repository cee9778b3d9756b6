package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/pkg/qrpayload"
	"github.com/vietanh2810/festival-api/internal/pkg/throttle"
	"github.com/vietanh2810/festival-api/internal/repository"
)

type RecordRepository interface {
	WithinTx(ctx context.Context, fn func(tx repository.RecordTx) error) error
}

type RecorderBoothRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Booth, error)
	FindByOwnerID(ctx context.Context, ownerID uint) (domain.Booth, error)
	UpsertRating(ctx context.Context, rating domain.Rating) (domain.Rating, error)
}

type RecorderLogRepository interface {
	VisitsByStudent(ctx context.Context, studentID uint) ([]domain.VisitEntry, error)
	HasVisited(ctx context.Context, studentID, boothID uint) (bool, error)
}

type RecorderConfig struct {
	AwardPoints        int
	AwardWindowMinutes float64
}

// RecorderService records visits, point awards and hearts. Each recording runs
// resolve, check and write inside one transaction holding the actor's row lock,
// with a unique index on the log table as the last arbiter.
type RecorderService struct {
	records  RecordRepository
	booths   RecorderBoothRepository
	logs     RecorderLogRepository
	conf     RecorderConfig
	outcomes OutcomeRecorder
	now      func() time.Time
}

func NewRecorderService(records RecordRepository, booths RecorderBoothRepository, logs RecorderLogRepository, conf RecorderConfig, outcomes OutcomeRecorder) *RecorderService {
	if outcomes == nil {
		outcomes = nopOutcomes{}
	}

	return &RecorderService{
		records:  records,
		booths:   booths,
		logs:     logs,
		conf:     conf,
		outcomes: outcomes,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordVisit records that studentID visited the booth whose QR payload was scanned.
// A booth is credited once per student, ever.
func (s *RecorderService) RecordVisit(ctx context.Context, studentID uint, payload string) (domain.VisitEntry, error) {
	token := qrpayload.ExtractToken(payload)
	if token == "" {
		s.outcomes.RecordOutcome("visit", "booth_not_found")
		return domain.VisitEntry{}, ErrBoothNotFound
	}

	var entry domain.VisitEntry
	err := s.records.WithinTx(ctx, func(tx repository.RecordTx) error {
		booth, err := tx.FindBoothByQRToken(token)
		if err != nil {
			if errors.Is(err, repository.ErrBoothNotFound) {
				return ErrBoothNotFound
			}
			return fmt.Errorf("tx.FindBoothByQRToken -> %w", err)
		}

		student, err := tx.LockAccount(studentID)
		if err != nil {
			return fmt.Errorf("tx.LockAccount -> %w", err)
		}
		if student.Role != domain.RoleStudent {
			return ErrForbidden
		}

		last, err := tx.LatestVisit(student.ID, booth.ID)
		if err != nil {
			return fmt.Errorf("tx.LatestVisit -> %w", err)
		}
		if last != nil {
			return &DuplicateVisitError{LastVisitedAt: last.VisitedAt}
		}

		visit, inserted, err := tx.InsertVisit(domain.VisitLog{
			StudentID: student.ID,
			BoothID:   booth.ID,
			VisitedAt: s.now(),
		})
		if err != nil {
			return fmt.Errorf("tx.InsertVisit -> %w", err)
		}
		if !inserted {
			return s.duplicateVisit(tx, student.ID, booth.ID)
		}

		if err = tx.IncrementVisitCount(student.ID); err != nil {
			return fmt.Errorf("tx.IncrementVisitCount -> %w", err)
		}

		entry = domain.VisitEntry{
			VisitLog:        visit,
			BoothName:       booth.Name,
			StudentNickname: student.Nickname,
			StudentLabel:    student.StudentLabel(),
		}
		return nil
	})
	s.outcomes.RecordOutcome("visit", outcome(err))
	if err != nil {
		return domain.VisitEntry{}, err
	}

	return entry, nil
}

func (s *RecorderService) duplicateVisit(tx repository.RecordTx, studentID, boothID uint) error {
	last, err := tx.LatestVisit(studentID, boothID)
	if err != nil {
		return fmt.Errorf("tx.LatestVisit -> %w", err)
	}
	if last == nil {
		return &DuplicateVisitError{LastVisitedAt: s.now()}
	}

	return &DuplicateVisitError{LastVisitedAt: last.VisitedAt}
}

// AwardPointsAsManager awards the configured points from the booth managerID owns.
func (s *RecorderService) AwardPointsAsManager(ctx context.Context, managerID uint, payload string) (domain.PointEntry, error) {
	booth, err := s.booths.FindByOwnerID(ctx, managerID)
	if err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			s.outcomes.RecordOutcome("award", "booth_access_denied")
			return domain.PointEntry{}, ErrBoothAccessDenied
		}
		return domain.PointEntry{}, fmt.Errorf("s.booths.FindByOwnerID -> %w", err)
	}

	return s.AwardPoints(ctx, booth.ID, qrpayload.ExtractToken(payload), s.conf.AwardPoints)
}

// AwardPoints credits points to the student holding qrToken, at most once per cooldown window per booth.
func (s *RecorderService) AwardPoints(ctx context.Context, boothID uint, qrToken string, points int) (domain.PointEntry, error) {
	if points <= 0 {
		return domain.PointEntry{}, ErrInvalidInput
	}
	if qrToken == "" {
		s.outcomes.RecordOutcome("award", "student_not_found")
		return domain.PointEntry{}, ErrStudentNotFound
	}

	var entry domain.PointEntry
	err := s.records.WithinTx(ctx, func(tx repository.RecordTx) error {
		student, err := tx.LockAccountByQRToken(qrToken)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return ErrStudentNotFound
			}
			return fmt.Errorf("tx.LockAccountByQRToken -> %w", err)
		}
		if student.Role != domain.RoleStudent {
			return ErrStudentNotFound
		}

		last, err := tx.LatestPointLog(student.ID, boothID)
		if err != nil {
			return fmt.Errorf("tx.LatestPointLog -> %w", err)
		}

		now := s.now()
		seq := 1
		var lastAt *time.Time
		if last != nil {
			seq = last.Seq + 1
			lastAt = &last.AwardedAt
		}
		if decision := throttle.CheckAward(lastAt, now, s.conf.AwardWindowMinutes); !decision.Allowed {
			return &DuplicateAwardError{AvailableAt: decision.AvailableAt}
		}

		log, inserted, err := tx.InsertPointLog(domain.PointLog{
			StudentID: student.ID,
			BoothID:   boothID,
			Points:    points,
			Seq:       seq,
			AwardedAt: now,
		})
		if err != nil {
			return fmt.Errorf("tx.InsertPointLog -> %w", err)
		}
		if !inserted {
			return s.duplicateAward(tx, student.ID, boothID)
		}

		entry = domain.PointEntry{
			PointLog:        log,
			StudentNickname: student.Nickname,
			StudentLabel:    student.StudentLabel(),
		}
		return nil
	})
	s.outcomes.RecordOutcome("award", outcome(err))
	if err != nil {
		return domain.PointEntry{}, err
	}

	return entry, nil
}

func (s *RecorderService) duplicateAward(tx repository.RecordTx, studentID, boothID uint) error {
	last, err := tx.LatestPointLog(studentID, boothID)
	if err != nil {
		return fmt.Errorf("tx.LatestPointLog -> %w", err)
	}
	if last == nil {
		return &DuplicateAwardError{AvailableAt: throttle.ComputeExpiry(s.now(), s.conf.AwardWindowMinutes)}
	}

	return &DuplicateAwardError{AvailableAt: throttle.ComputeExpiry(last.AwardedAt, s.conf.AwardWindowMinutes)}
}

// ToggleHeart flips accountID's heart on postID. A concurrent toggle that already
// produced the target state is treated as success.
func (s *RecorderService) ToggleHeart(ctx context.Context, postID, accountID uint) (domain.HeartToggle, error) {
	var result domain.HeartToggle
	err := s.records.WithinTx(ctx, func(tx repository.RecordTx) error {
		if _, err := tx.FindPost(postID); err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("tx.FindPost -> %w", err)
		}

		exists, err := tx.HasHeart(postID, accountID)
		if err != nil {
			return fmt.Errorf("tx.HasHeart -> %w", err)
		}

		if exists {
			if _, err = tx.DeleteHeart(postID, accountID); err != nil {
				return fmt.Errorf("tx.DeleteHeart -> %w", err)
			}
			result.Hearted = false
		} else {
			if _, err = tx.InsertHeart(postID, accountID, s.now()); err != nil {
				return fmt.Errorf("tx.InsertHeart -> %w", err)
			}
			result.Hearted = true
		}

		result.TotalHearts, err = tx.CountHearts(postID)
		if err != nil {
			return fmt.Errorf("tx.CountHearts -> %w", err)
		}
		return nil
	})
	s.outcomes.RecordOutcome("heart", outcome(err))
	if err != nil {
		return domain.HeartToggle{}, err
	}

	return result, nil
}

func (s *RecorderService) MyVisits(ctx context.Context, studentID uint) ([]domain.VisitEntry, error) {
	visits, err := s.logs.VisitsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("s.logs.VisitsByStudent -> %w", err)
	}

	return visits, nil
}

// RateBooth stores the student's 1..5 star rating, replacing an earlier one.
// Only visited booths can be rated.
func (s *RecorderService) RateBooth(ctx context.Context, studentID, boothID uint, stars int) (domain.Rating, error) {
	if stars < 1 || stars > 5 {
		return domain.Rating{}, ErrInvalidInput
	}

	if _, err := s.booths.FindByID(ctx, boothID); err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return domain.Rating{}, ErrBoothNotFound
		}
		return domain.Rating{}, fmt.Errorf("s.booths.FindByID -> %w", err)
	}

	visited, err := s.logs.HasVisited(ctx, studentID, boothID)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("s.logs.HasVisited -> %w", err)
	}
	if !visited {
		return domain.Rating{}, ErrNotVisited
	}

	rating, err := s.booths.UpsertRating(ctx, domain.Rating{
		BoothID:   boothID,
		StudentID: studentID,
		Stars:     stars,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return domain.Rating{}, fmt.Errorf("s.booths.UpsertRating -> %w", err)
	}

	return rating, nil
}

func outcome(err error) string {
	var (
		visitErr *DuplicateVisitError
		awardErr *DuplicateAwardError
	)
	switch {
	case err == nil:
		return "recorded"
	case errors.As(err, &visitErr), errors.As(err, &awardErr):
		return "duplicate"
	case errors.Is(err, ErrBoothNotFound):
		return "booth_not_found"
	case errors.Is(err, ErrStudentNotFound):
		return "student_not_found"
	case errors.Is(err, ErrPostNotFound):
		return "post_not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
