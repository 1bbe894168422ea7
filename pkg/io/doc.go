// Package io exports overlap graphs as JSON.
//
// # JSON Format
//
// The document records the k-mer length, every node and every edge:
//
//	{
//	  "k": 3,
//	  "nodes": [
//	    {"key": "ATG", "sequence": "ATGC", "length": 4, "in_degree": 0, "out_degree": 1},
//	    {"key": "GCG", "sequence": "GCGTAGC", "length": 7, "in_degree": 2, "out_degree": 1}
//	  ],
//	  "edges": [
//	    {"from": "ATG", "to": "GCG", "weight": 1},
//	    {"from": "GCG", "to": "GCG", "weight": 1}
//	  ]
//	}
//
// A node's key is the k-mer it was created from and stays stable while
// [dbg.Graph.Simplify] grows its sequence, so edges refer to keys. Nodes
// are sorted by key and edges by (from, to), so the same graph always
// produces byte-identical output.
//
// [dbg.Graph.Simplify]: github.com/matzehuels/dbgasm/pkg/dbg.Graph.Simplify
package io
