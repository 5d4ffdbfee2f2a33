package store

import (
	"errors"
	"sync"

	"platform/backend/models"

	"gorm.io/gorm"
)

// GormStore implements RecordStore on a gorm connection.
type GormStore struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[progressKey]*sync.Mutex
}

type progressKey struct {
	userID   uint
	lessonID uint
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:    db,
		locks: make(map[progressKey]*sync.Mutex),
	}
}

func (s *GormStore) FetchCourses(publishedOnly bool) ([]models.Course, error) {
	query := s.db.Order("created_at DESC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *GormStore) FetchCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *GormStore) FetchLessons(courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := s.db.Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (s *GormStore) FetchLesson(lessonID uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.First(&lesson, lessonID).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *GormStore) FetchProgress(userID, courseID uint) ([]models.ProgressRecord, error) {
	query := s.db.Where("user_id = ?", userID)
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var records []models.ProgressRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) FetchAssessments(lessonID uint) ([]models.Assessment, error) {
	var assessments []models.Assessment
	if err := s.db.Where("lesson_id = ?", lessonID).
		Order("id ASC").
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

// UpsertProgress serializes writes per (user, lesson) so the open upsert and
// the first answer upsert cannot race to create duplicate rows, then
// read-checks before deciding insert vs update.
func (s *GormStore) UpsertProgress(record models.ProgressRecord) error {
	lock := s.lockFor(record.UserID, record.LessonID)
	lock.Lock()
	defer lock.Unlock()

	var existing models.ProgressRecord
	err := s.db.Where("user_id = ? AND lesson_id = ?", record.UserID, record.LessonID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.Create(&record).Error
		}
		return err
	}

	// Only the mutable fields move; StartedAt is fixed at creation and
	// CompletedAt is never cleared once set.
	existing.Status = record.Status
	existing.CompletionPercentage = record.CompletionPercentage
	existing.TimeSpentMinutes = record.TimeSpentMinutes
	existing.LastAccessedAt = record.LastAccessedAt
	if existing.CompletedAt == nil {
		existing.CompletedAt = record.CompletedAt
	}

	return s.db.Save(&existing).Error
}

func (s *GormStore) LogAttempt(attempt models.AssessmentAttempt) error {
	return s.db.Create(&attempt).Error
}

func (s *GormStore) FetchProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	if update.FullName != "" {
		user.FullName = update.FullName
	}
	if update.AvatarURL != "" {
		user.AvatarURL = update.AvatarURL
	}
	if update.Bio != "" {
		user.Bio = update.Bio
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FetchPaths() ([]models.LearningPath, error) {
	var paths []models.LearningPath
	if err := s.db.Find(&paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *GormStore) lockFor(userID, lessonID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := progressKey{userID, lessonID}
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
