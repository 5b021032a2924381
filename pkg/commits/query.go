package commits

import (
	"fmt"
	"strings"
)

// aliasSeparator is the safe separator used in GraphQL sub-query aliases so
// that "org/repo" identifiers survive the round trip through alias names.
const aliasSeparator = "___"

const repoQueryTemplate = `
  %s: repository(owner: %q, name: %q) {
      primaryBranch: ref(qualifiedName: %q) {
        target {
          ... on Commit {
            history(first: 1) {
              edges {
                node {
                  abbreviatedOid
                }
              }
            }
          }
        }
      }
      fallbackBranch: ref(qualifiedName: %q) {
        target {
          ... on Commit {
            history(first: 1) {
              edges {
                node {
                  abbreviatedOid
                }
              }
            }
          }
        }
      }
  }
`

// BuildQuery builds one GraphQL query covering every workbook and both
// candidate branches, so the latest commit hashes for n workbooks cost a
// single request instead of 2*n.
func BuildQuery(workbooks []string, primaryBranch, fallbackBranch string) (string, error) {
	queries := make([]string, 0, len(workbooks))
	for _, wb := range workbooks {
		org, repo, found := strings.Cut(wb, "/")
		if !found || org == "" || repo == "" {
			return "", NewBadWorkbookError(wb)
		}
		queries = append(queries, fmt.Sprintf(repoQueryTemplate, workbookAlias(wb), org, repo, primaryBranch, fallbackBranch))
	}
	return "{" + strings.Join(queries, " ") + "}", nil
}

// workbookAlias derives the GraphQL alias for a workbook identifier.
func workbookAlias(workbook string) string {
	return strings.ReplaceAll(workbook, "/", aliasSeparator)
}

// aliasWorkbook recovers the workbook identifier from a sub-query alias.
func aliasWorkbook(alias string) string {
	return strings.ReplaceAll(alias, aliasSeparator, "/")
}
