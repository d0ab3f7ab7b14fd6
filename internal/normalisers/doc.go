// Package normalisers converts fetched content into plain text suitable for
// chunking and embedding.
package normalisers
