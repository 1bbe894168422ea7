// Package render groups the graph renderers.
//
// The [nodelink] subpackage draws the overlap graph as a node-link diagram:
// it emits Graphviz DOT and lays it out to SVG with the embedded Graphviz
// build from goccy/go-graphviz, so no external binaries are required.
package render
