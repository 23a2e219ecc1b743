package response

import "github.com/Guyuepp/knowledge-base/domain"

type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

type VoteResult struct {
	VoteCounts
	UserVote string `json:"userVote"`
}

func NewVoteResultFromDomain(r domain.VoteResult) VoteResult {
	return VoteResult{
		VoteCounts: VoteCounts{Upvotes: r.Upvotes, Downvotes: r.Downvotes},
		UserVote:   string(r.UserVote),
	}
}
