// Package commits fetches the latest short commit hashes for a batch of
// workbooks with a single GraphQL query against the hosting remote.
package commits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the GraphQL endpoint queried for commit history.
const DefaultEndpoint = "https://api.github.com/graphql"

// CommitPair holds the latest short commit hash on each candidate branch of
// a workbook. An empty hash means the branch does not exist; at least one of
// the two is always present.
type CommitPair struct {
	Workbook string
	Primary  string
	Fallback string
}

// Client issues batched commit queries.
type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
	log      *logrus.Logger
}

// NewClient creates a commit query client authenticated with the given
// bearer token. An empty endpoint selects DefaultEndpoint.
func NewClient(endpoint, token string, log *logrus.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logrus.New()
	}

	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{},
		log:      log,
	}
}

// SetHTTPClient overrides the underlying HTTP client. Callers that need a
// deadline should either pass a context or install a client with a timeout.
func (c *Client) SetHTTPClient(httpc *http.Client) {
	if httpc != nil {
		c.httpc = httpc
	}
}

// Typed mirror of the GraphQL response, so a missing or renamed field fails
// at the deserialization boundary instead of deep in resolution.
type queryResponse struct {
	Data map[string]*repoRefs `json:"data"`
}

type repoRefs struct {
	PrimaryBranch  *branchRef `json:"primaryBranch"`
	FallbackBranch *branchRef `json:"fallbackBranch"`
}

type branchRef struct {
	Target *commitTarget `json:"target"`
}

type commitTarget struct {
	History commitHistory `json:"history"`
}

type commitHistory struct {
	Edges []commitEdge `json:"edges"`
}

type commitEdge struct {
	Node commitNode `json:"node"`
}

type commitNode struct {
	AbbreviatedOid string `json:"abbreviatedOid"`
}

// latestHash walks the nested ref structure; any null along the way means
// the branch has no commit history.
func (r *branchRef) latestHash() string {
	if r == nil || r.Target == nil || len(r.Target.History.Edges) == 0 {
		return ""
	}
	return r.Target.History.Edges[0].Node.AbbreviatedOid
}

// Fetch queries the latest commit hash on the primary and fallback branches
// of every workbook in one network round trip and demultiplexes the result
// per workbook. A workbook with neither branch present is an error, never a
// silently empty pair.
func (c *Client) Fetch(ctx context.Context, workbooks []string, primaryBranch, fallbackBranch string) (map[string]CommitPair, error) {
	query, err := BuildQuery(workbooks, primaryBranch, fallbackBranch)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	c.log.WithField("workbooks", len(workbooks)).Debug("Querying latest commit hashes")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteQuery, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewRemoteQueryError(resp.StatusCode, string(raw))
	}

	var decoded queryResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return demux(decoded.Data)
}

// demux turns the alias-keyed response into per-workbook commit pairs.
func demux(data map[string]*repoRefs) (map[string]CommitPair, error) {
	pairs := make(map[string]CommitPair, len(data))
	for alias, refs := range data {
		workbook := aliasWorkbook(alias)
		if refs == nil {
			return nil, NewNoBranchFoundError(workbook)
		}

		pair := CommitPair{
			Workbook: workbook,
			Primary:  refs.PrimaryBranch.latestHash(),
			Fallback: refs.FallbackBranch.latestHash(),
		}
		if pair.Primary == "" && pair.Fallback == "" {
			return nil, NewNoBranchFoundError(workbook)
		}

		pairs[workbook] = pair
	}
	return pairs, nil
}
