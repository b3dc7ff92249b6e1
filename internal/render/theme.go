package render

// Theme holds the colors used for per-function CFG dot rendering, pared
// down to the edge/node roles this domain actually has: taken vs.
// fallthrough edges, loop-header vs. plain nodes.
type Theme struct {
	Background string
	NodeFill   string
	NodeBorder string
	TextColor  string

	EdgeTaken       string // "if-goto" (taken) edge
	EdgeFallthrough string // fallthrough edge
	EdgeGoto        string // unconditional goto edge

	HeaderBorder string // loop-header node outline
}

// NASA is a NASA/Bauhaus palette: geometric, monochrome, sparse color.
var NASA = Theme{
	Background: "#F5F5F5",
	NodeFill:   "white",
	NodeBorder: "#1A1A1A",
	TextColor:  "#1A1A1A",

	EdgeTaken:       "#0B3D91", // NASA blue
	EdgeFallthrough: "#9E9E9E", // gray
	EdgeGoto:        "#424242", // dark gray

	HeaderBorder: "#FC3D21", // NASA red
}
