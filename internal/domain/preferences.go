package domain

// NotificationCategory identifies one kind of notification a subscriber can opt into.
type NotificationCategory string

const (
	CategoryBiliPlainDyn NotificationCategory = "bili_plain_dyn"
	CategoryBiliRtDyn    NotificationCategory = "bili_rt_dyn"
	CategoryBiliImgDyn   NotificationCategory = "bili_img_dyn"
	CategoryBiliVideo    NotificationCategory = "bili_video"
	CategoryTweet        NotificationCategory = "t_tweet"
	CategoryRetweet      NotificationCategory = "t_rt"
	CategoryYtbLive      NotificationCategory = "ytb_live"
	CategoryYtbSched     NotificationCategory = "ytb_sched"
	CategoryYtbReminder  NotificationCategory = "ytb_reminder"
	CategoryYtbVideo     NotificationCategory = "ytb_video"
)

// KnownCategories enumerates every accepted notification category.
var KnownCategories = map[NotificationCategory]struct{}{
	CategoryBiliPlainDyn: {},
	CategoryBiliRtDyn:    {},
	CategoryBiliImgDyn:   {},
	CategoryBiliVideo:    {},
	CategoryTweet:        {},
	CategoryRetweet:      {},
	CategoryYtbLive:      {},
	CategoryYtbSched:     {},
	CategoryYtbReminder:  {},
	CategoryYtbVideo:     {},
}

// IsKnownCategory reports whether s names an accepted notification category.
func IsKnownCategory(s string) bool {
	_, ok := KnownCategories[NotificationCategory(s)]
	return ok
}

// Preferences is the per-subscriber document stored in the collection.
// The user key is immutable once created; sub and notif are fully replaced
// on update, never merged.
type Preferences struct {
	User  string   `bson:"user" json:"user"`
	Sub   []string `bson:"sub" json:"sub"`
	Notif []string `bson:"notif" json:"notif"`
}

// NewPreferences returns the document created at registration time.
func NewPreferences(user string) Preferences {
	return Preferences{User: user, Sub: []string{}, Notif: []string{}}
}
