// Package kb implements the markdown knowledge-base retrieval engine used by
// the md_lookup tool.
//
// A knowledge base is a flat directory of *.md files. Each file is split into
// header-delimited sections (Split), every section is scored against the query
// by raw substring counting (Score) and the pooled sections are ranked with a
// stable descending sort and truncated (Rank).
//
// Scoring is deliberately naive: no stemming, no word boundaries, no length
// normalization. A query token matches inside larger words.
package kb
