package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/knowledge-base/domain"
)

func node(id int64, parent *int64) *domain.CommentNode {
	return &domain.CommentNode{Comment: domain.Comment{ID: id, ParentID: parent}}
}

func ptr(v int64) *int64 { return &v }

func count(nodes []*domain.CommentNode) int {
	n := len(nodes)
	for _, c := range nodes {
		n += count(c.Replies)
	}
	return n
}

func checkParents(t *testing.T, parent *domain.CommentNode, nodes []*domain.CommentNode) {
	for _, c := range nodes {
		if parent != nil {
			require.NotNil(t, c.ParentID)
			assert.Equal(t, parent.ID, *c.ParentID)
		}
		checkParents(t, c, c.Replies)
	}
}

func TestBuildHierarchy(t *testing.T) {
	input := []*domain.CommentNode{
		node(1, nil),
		node(2, ptr(1)),
		node(3, nil),
		node(4, ptr(2)),
		node(5, ptr(1)),
		node(6, ptr(3)),
	}
	forest := BuildHierarchy(input)

	require.Len(t, forest, 2)
	assert.EqualValues(t, 1, forest[0].ID)
	assert.EqualValues(t, 3, forest[1].ID)
	require.Len(t, forest[0].Replies, 2)
	assert.EqualValues(t, 2, forest[0].Replies[0].ID)
	assert.EqualValues(t, 5, forest[0].Replies[1].ID)
	require.Len(t, forest[0].Replies[0].Replies, 1)
	assert.EqualValues(t, 4, forest[0].Replies[0].Replies[0].ID)

	assert.Equal(t, len(input), count(forest))
	checkParents(t, nil, forest)
}

func TestBuildHierarchy_UnresolvedParentBecomesRoot(t *testing.T) {
	forest := BuildHierarchy([]*domain.CommentNode{
		node(10, ptr(99)),
		node(11, ptr(10)),
		node(12, ptr(12)),
	})
	require.Len(t, forest, 2)
	assert.EqualValues(t, 10, forest[0].ID)
	assert.EqualValues(t, 12, forest[1].ID)
	assert.Empty(t, forest[1].Replies)
	assert.Equal(t, 3, count(forest))
}

func TestBuildHierarchy_Empty(t *testing.T) {
	forest := BuildHierarchy(nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestDescendants(t *testing.T) {
	comments := []domain.Comment{
		{ID: 1},
		{ID: 2, ParentID: ptr(1)},
		{ID: 3, ParentID: ptr(2)},
		{ID: 4},
		{ID: 5, ParentID: ptr(1)},
	}
	assert.Equal(t, []int64{1, 2, 5, 3}, descendants(comments, 1))
	assert.Equal(t, []int64{4}, descendants(comments, 4))
}
