package usecase

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/fileset"
)

// ErrTopicNotFound is returned when a topic reference matches nothing.
var ErrTopicNotFound = errors.New("topic not found")

// ResolveTopic finds a topic by GUID or by its 1-based position in the
// display order of Set.Topics.
func ResolveTopic(set *fileset.Set, ref string) (fileset.TopicRef, error) {
	if t, ok := set.FindTopic(ref); ok {
		return t, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		topics := set.Topics()
		if n >= 1 && n <= len(topics) {
			return topics[n-1], nil
		}
	}
	return fileset.TopicRef{}, fmt.Errorf("%w: %s", ErrTopicNotFound, ref)
}

// ResolveViewpoint picks a viewpoint of m: the one with guid, or the primary
// viewpoint when guid is empty.
func ResolveViewpoint(m *bcf.Markup, guid string) (*bcf.Viewpoint, error) {
	if guid == "" {
		vp := m.PrimaryViewpoint()
		if vp == nil {
			return nil, fmt.Errorf("topic %s has no viewpoints", m.Topic.GUID)
		}
		return vp, nil
	}
	vp := m.FindViewpoint(guid)
	if vp == nil {
		return nil, fmt.Errorf("viewpoint %s not found in topic %s", guid, m.Topic.GUID)
	}
	return vp, nil
}
