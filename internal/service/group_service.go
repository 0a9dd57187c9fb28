package service

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jengzang/runmap-backend-go/internal/collection"
	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/repository"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

// MaxGroupNameLength is the longest accepted group name, in characters
const MaxGroupNameLength = 255

var (
	// ErrInvalidGroup is returned for a save request that fails validation
	ErrInvalidGroup = errors.New("invalid group")
	// ErrInvalidGroupID is returned for an ID that is not 12 lowercase hex characters
	ErrInvalidGroupID = errors.New("invalid group id")
	// ErrGroupNotFound is returned when no group has the requested ID
	ErrGroupNotFound = errors.New("group not found")
)

var groupIDPattern = regexp.MustCompile(`^[a-f0-9]{12}$`)

// GroupService handles saving and loading shared activity groups
type GroupService struct {
	repo  *repository.GroupRepository
	clock timeutil.Clock
	newID func() string
}

// NewGroupService creates a new group service
func NewGroupService(repo *repository.GroupRepository, clock timeutil.Clock) *GroupService {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &GroupService{repo: repo, clock: clock, newID: NewGroupID}
}

// NewGroupID returns 12 random lowercase hex characters
func NewGroupID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:6])
}

// ValidGroupID reports whether id has the short-link format
func ValidGroupID(id string) bool {
	return groupIDPattern.MatchString(id)
}

// Save validates and stores a group, returning its ID and share URL
func (s *GroupService) Save(req models.SaveGroupRequest) (*models.SaveGroupResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxGroupNameLength {
		return nil, fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidGroup, MaxGroupNameLength)
	}
	if len(req.Activities) == 0 {
		return nil, fmt.Errorf("%w: activities must be a non-empty array", ErrInvalidGroup)
	}

	group := &models.Group{
		Name:       name,
		Activities: collection.Merge(nil, req.Activities),
		CreatedAt:  s.clock.Now().UTC().Format(time.RFC3339),
	}
	for attempt := 0; attempt < 5; attempt++ {
		group.ID = s.newID()
		err := s.repo.Create(group)
		if errors.Is(err, repository.ErrGroupIDTaken) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save group: %w", err)
		}
		return &models.SaveGroupResponse{ID: group.ID, URL: "/group/" + group.ID}, nil
	}
	return nil, fmt.Errorf("failed to allocate a free group id")
}

// Get loads a group. Its activities come back ordered and deduplicated.
func (s *GroupService) Get(id string) (*models.Group, error) {
	if !ValidGroupID(id) {
		return nil, ErrInvalidGroupID
	}

	group, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	group.Activities = collection.Merge(nil, group.Activities)
	return group, nil
}
