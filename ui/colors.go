package ui

// PaletteColor is one entry in the note color chooser.
type PaletteColor struct {
	Name string
	Hex  string
}

// Palette is the fixed set of note background colors, in menu order.
var Palette = []PaletteColor{
	{"Yellow", "#FFFF99"},
	{"Blue", "#99CCFF"},
	{"Green", "#99FF99"},
	{"Pink", "#FFB6C1"},
	{"Orange", "#FFCC99"},
	{"Purple", "#CC99FF"},
	{"Red", "#FF9999"},
	{"Cyan", "#99FFFF"},
	{"Lime", "#CCFF99"},
	{"Salmon", "#FFA07A"},
	{"Lavender", "#E6CCFF"},
	{"Peach", "#FFCCB3"},
	{"Mint", "#B3FFCC"},
	{"Sky", "#B3DDFF"},
	{"Gold", "#FFE699"},
	{"Rose", "#FFB3D9"},
	{"Teal", "#99CCCC"},
	{"Plum", "#DD99FF"},
	{"Powder Blue", "#B0E0E6"},
	{"Honeydew", "#F0FFF0"},
	{"Thistle", "#D8BFD8"},
	{"Wheat", "#F5DEB3"},
	{"Beige", "#F5F5DC"},
	{"Cornsilk", "#FFF8DC"},
	{"Linen", "#FAF0E6"},
	{"Misty Rose", "#FFE4E1"},
	{"Floral White", "#FFFAF0"},
	{"Seashell", "#FFF5EE"},
	{"Antique White", "#FAEBD7"},
	{"Cream", "#FFFDD0"},
	{"Light Yellow", "#FFFFE0"},
	{"Light Green", "#90EE90"},
	{"Light Blue", "#ADD8E6"},
	{"Light Pink", "#FFB6C1"},
	{"Light Gray", "#D3D3D3"},
	{"Dark Salmon", "#E9967A"},
	{"Light Salmon", "#FFA07A"},
	{"Light Sea Green", "#20B2AA"},
}
