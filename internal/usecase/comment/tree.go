package comment

import "github.com/Guyuepp/knowledge-base/domain"

// BuildHierarchy links creation-ordered nodes into a forest in a single pass.
// A node whose parent is absent, or appears later in the input, becomes a root.
// Every input node ends up exactly once in the result.
func BuildHierarchy(nodes []*domain.CommentNode) []*domain.CommentNode {
	index := make(map[int64]*domain.CommentNode, len(nodes))
	roots := make([]*domain.CommentNode, 0)
	for _, n := range nodes {
		n.Replies = []*domain.CommentNode{}
		index[n.ID] = n
		if n.ParentID != nil {
			if parent, ok := index[*n.ParentID]; ok && parent != n {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// descendants returns root and every comment below it, parents before children.
func descendants(comments []domain.Comment, root int64) []int64 {
	children := make(map[int64][]int64)
	for _, c := range comments {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	res := []int64{root}
	seen := map[int64]struct{}{root: {}}
	for i := 0; i < len(res); i++ {
		for _, child := range children[res[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			res = append(res, child)
		}
	}
	return res
}
