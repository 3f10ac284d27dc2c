package memstore

import (
	"bytes"
	"encoding/json"

	"trove/internal/models"
)

// Entity kind keys. They name both the snapshot collections and the
// per-kind identifier counters.
const (
	kindUsers            = "users"
	kindCategories       = "categories"
	kindPosts            = "posts"
	kindComments         = "comments"
	kindPostLikes        = "postLikes"
	kindFinds            = "finds"
	kindFindComments     = "findComments"
	kindFindLikes        = "findLikes"
	kindLocations        = "locations"
	kindEvents           = "events"
	kindStories          = "stories"
	kindGroups           = "groups"
	kindGroupMemberships = "groupMemberships"
	kindUserConnections  = "userConnections"
	kindActivities       = "activities"
	kindMessages         = "messages"
	kindAchievements     = "achievements"
	kindUserAchievements = "userAchievements"
	kindRoutes           = "routes"
	kindPreferences      = "preferences"
	kindImages           = "images"
)

// snapshot is the full durable document: one collection per entity kind
// keyed by identifier, plus the per-kind next-identifier counters and the
// initialized flag. Timestamps are typed time.Time fields on the records,
// so encoding and decoding round-trips them exactly (RFC 3339 with
// nanoseconds), never as display strings.
//
// Loading stays backward-compatible: collections absent from an older file
// decode to nil maps and are allocated by normalize.
type snapshot struct {
	Initialized bool            `json:"initialized"`
	Counters    map[string]uint `json:"counters"`

	Users            map[uint]*models.User            `json:"users"`
	Categories       map[uint]*models.Category        `json:"categories"`
	Posts            map[uint]*models.Post            `json:"posts"`
	Comments         map[uint]*models.Comment         `json:"comments"`
	PostLikes        map[uint]*models.PostLike        `json:"postLikes"`
	Finds            map[uint]*models.Find            `json:"finds"`
	FindComments     map[uint]*models.FindComment     `json:"findComments"`
	FindLikes        map[uint]*models.FindLike        `json:"findLikes"`
	Locations        map[uint]*models.Location        `json:"locations"`
	Events           map[uint]*models.Event           `json:"events"`
	Stories          map[uint]*models.Story           `json:"stories"`
	Groups           map[uint]*models.Group           `json:"groups"`
	GroupMemberships map[uint]*models.GroupMembership `json:"groupMemberships"`
	UserConnections  map[uint]*models.UserConnection  `json:"userConnections"`
	Activities       map[uint]*models.Activity        `json:"activities"`
	Messages         map[uint]*models.Message         `json:"messages"`
	Achievements     map[uint]*models.Achievement     `json:"achievements"`
	UserAchievements map[uint]*models.UserAchievement `json:"userAchievements"`
	Routes           map[uint]*models.Route           `json:"routes"`
	Preferences      map[uint]*models.Preference      `json:"preferences"`
	Images           map[uint]*models.ImageMetadata   `json:"images"`
}

func newSnapshot() *snapshot {
	s := &snapshot{}
	s.normalize()
	return s
}

// normalize allocates any collection or counter map a decoded snapshot is
// missing, so snapshots written before an entity kind existed keep loading.
func (s *snapshot) normalize() {
	if s.Counters == nil {
		s.Counters = make(map[string]uint)
	}
	if s.Users == nil {
		s.Users = make(map[uint]*models.User)
	}
	if s.Categories == nil {
		s.Categories = make(map[uint]*models.Category)
	}
	if s.Posts == nil {
		s.Posts = make(map[uint]*models.Post)
	}
	if s.Comments == nil {
		s.Comments = make(map[uint]*models.Comment)
	}
	if s.PostLikes == nil {
		s.PostLikes = make(map[uint]*models.PostLike)
	}
	if s.Finds == nil {
		s.Finds = make(map[uint]*models.Find)
	}
	if s.FindComments == nil {
		s.FindComments = make(map[uint]*models.FindComment)
	}
	if s.FindLikes == nil {
		s.FindLikes = make(map[uint]*models.FindLike)
	}
	if s.Locations == nil {
		s.Locations = make(map[uint]*models.Location)
	}
	if s.Events == nil {
		s.Events = make(map[uint]*models.Event)
	}
	if s.Stories == nil {
		s.Stories = make(map[uint]*models.Story)
	}
	if s.Groups == nil {
		s.Groups = make(map[uint]*models.Group)
	}
	if s.GroupMemberships == nil {
		s.GroupMemberships = make(map[uint]*models.GroupMembership)
	}
	if s.UserConnections == nil {
		s.UserConnections = make(map[uint]*models.UserConnection)
	}
	if s.Activities == nil {
		s.Activities = make(map[uint]*models.Activity)
	}
	if s.Messages == nil {
		s.Messages = make(map[uint]*models.Message)
	}
	if s.Achievements == nil {
		s.Achievements = make(map[uint]*models.Achievement)
	}
	if s.UserAchievements == nil {
		s.UserAchievements = make(map[uint]*models.UserAchievement)
	}
	if s.Routes == nil {
		s.Routes = make(map[uint]*models.Route)
	}
	if s.Preferences == nil {
		s.Preferences = make(map[uint]*models.Preference)
	}
	if s.Images == nil {
		s.Images = make(map[uint]*models.ImageMetadata)
	}
}

// nextID issues the next identifier for an entity kind: strictly greater
// than any previously issued value for that kind, never reused. The
// counters travel with the snapshot so monotonicity survives restarts.
func (s *snapshot) nextID(kind string) uint {
	s.Counters[kind]++
	return s.Counters[kind]
}

// encodeSnapshot serializes a snapshot for the durable file.
func encodeSnapshot(s *snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeSnapshot parses a durable file back into a snapshot.
func decodeSnapshot(data []byte) (*snapshot, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.normalize()
	return &s, nil
}
