package services

import (
	"sync"

	"rewardtrack-backend/models"

	"github.com/google/uuid"
)

// MemberListUpdate carries the full, sorted member list of one owner after a
// committed mutation. Seq increases monotonically per owner in commit order.
type MemberListUpdate struct {
	Seq     uint64          `json:"seq"`
	Members []models.Member `json:"members"`
}

// SettingsUpdate carries the owner's settings after a committed change.
type SettingsUpdate struct {
	Seq      uint64          `json:"seq"`
	Settings models.Settings `json:"settings"`
}

// Notifier fans committed state out to live subscribers. Subscriptions use a
// coalescing channel of capacity one: a newer state replaces an undelivered
// older one, so slow subscribers may skip intermediate states but always end
// on the latest committed state.
type Notifier struct {
	mu    sync.Mutex
	feeds map[uuid.UUID]*ownerFeed
}

type ownerFeed struct {
	seq          uint64
	memberSubs   map[*MemberSubscription]struct{}
	settingsSubs map[*SettingsSubscription]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{feeds: make(map[uuid.UUID]*ownerFeed)}
}

func (n *Notifier) feed(ownerID uuid.UUID) *ownerFeed {
	f, ok := n.feeds[ownerID]
	if !ok {
		f = &ownerFeed{
			memberSubs:   make(map[*MemberSubscription]struct{}),
			settingsSubs: make(map[*SettingsSubscription]struct{}),
		}
		n.feeds[ownerID] = f
	}
	return f
}

// MemberSubscription is a live feed of member-list states for one owner. It
// must be released with Close on every exit path; after Close returns no
// further updates are delivered and the channel is closed.
type MemberSubscription struct {
	notifier *Notifier
	ownerID  uuid.UUID
	updates  chan MemberListUpdate
	once     sync.Once
}

// Updates returns the channel the subscriber reads states from. The channel
// is closed by Close.
func (s *MemberSubscription) Updates() <-chan MemberListUpdate {
	return s.updates
}

func (s *MemberSubscription) Close() {
	s.once.Do(func() {
		n := s.notifier
		n.mu.Lock()
		if f, ok := n.feeds[s.ownerID]; ok {
			delete(f.memberSubs, s)
			n.dropFeedIfEmpty(s.ownerID, f)
		}
		n.mu.Unlock()
		close(s.updates)
	})
}

// SettingsSubscription is a live feed of settings states for one owner.
type SettingsSubscription struct {
	notifier *Notifier
	ownerID  uuid.UUID
	updates  chan SettingsUpdate
	once     sync.Once
}

func (s *SettingsSubscription) Updates() <-chan SettingsUpdate {
	return s.updates
}

func (s *SettingsSubscription) Close() {
	s.once.Do(func() {
		n := s.notifier
		n.mu.Lock()
		if f, ok := n.feeds[s.ownerID]; ok {
			delete(f.settingsSubs, s)
			n.dropFeedIfEmpty(s.ownerID, f)
		}
		n.mu.Unlock()
		close(s.updates)
	})
}

func (n *Notifier) dropFeedIfEmpty(ownerID uuid.UUID, f *ownerFeed) {
	if len(f.memberSubs) == 0 && len(f.settingsSubs) == 0 {
		delete(n.feeds, ownerID)
	}
}

func (n *Notifier) SubscribeMembers(ownerID uuid.UUID) *MemberSubscription {
	sub := &MemberSubscription{
		notifier: n,
		ownerID:  ownerID,
		updates:  make(chan MemberListUpdate, 1),
	}
	n.mu.Lock()
	n.feed(ownerID).memberSubs[sub] = struct{}{}
	n.mu.Unlock()
	return sub
}

func (n *Notifier) SubscribeSettings(ownerID uuid.UUID) *SettingsSubscription {
	sub := &SettingsSubscription{
		notifier: n,
		ownerID:  ownerID,
		updates:  make(chan SettingsUpdate, 1),
	}
	n.mu.Lock()
	n.feed(ownerID).settingsSubs[sub] = struct{}{}
	n.mu.Unlock()
	return sub
}

// PublishMembers delivers the given member list to every member-list
// subscriber of the owner. Sends happen under the hub lock, so publishers are
// serialized and the coalescing replace below can never block.
func (n *Notifier) PublishMembers(ownerID uuid.UUID, members []models.Member) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	f, ok := n.feeds[ownerID]
	if !ok {
		return
	}
	f.seq++
	update := MemberListUpdate{Seq: f.seq, Members: members}
	for sub := range f.memberSubs {
		select {
		case sub.updates <- update:
		default:
			// Subscriber has an undelivered state; replace it with the newer one.
			select {
			case <-sub.updates:
			default:
			}
			sub.updates <- update
		}
	}
}

// PublishSettings delivers the given settings to every settings subscriber of
// the owner.
func (n *Notifier) PublishSettings(ownerID uuid.UUID, settings models.Settings) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	f, ok := n.feeds[ownerID]
	if !ok {
		return
	}
	f.seq++
	update := SettingsUpdate{Seq: f.seq, Settings: settings}
	for sub := range f.settingsSubs {
		select {
		case sub.updates <- update:
		default:
			select {
			case <-sub.updates:
			default:
			}
			sub.updates <- update
		}
	}
}
