package penpot

import (
	"fmt"
)

// Shape builders assemble attribute dictionaries for add-obj changes.
// Pure data construction; property names are kebab-case as the backend
// requires. Every shape carries selrect, corner points, and identity
// transforms or the backend rejects it.

func identityTransform() map[string]any {
	return map[string]any{
		"a": 1.0,
		"b": 0.0,
		"c": 0.0,
		"d": 1.0,
		"e": 0.0,
		"f": 0.0,
	}
}

func addGeometry(obj map[string]any, x float64, y float64, width float64, height float64) map[string]any {
	obj["selrect"] = map[string]any{
		"x":      x,
		"y":      y,
		"width":  width,
		"height": height,
		"x1":     x,
		"y1":     y,
		"x2":     x + width,
		"y2":     y + height,
	}
	obj["points"] = []map[string]any{
		{"x": x, "y": y},
		{"x": x + width, "y": y},
		{"x": x + width, "y": y + height},
		{"x": x, "y": y + height},
	}
	obj["transform"] = identityTransform()
	obj["transform-inverse"] = identityTransform()
	return obj
}

func solidFill(fillColor string, fillOpacity float64) []map[string]any {
	return []map[string]any{
		{
			"fill-color":   fillColor,
			"fill-opacity": fillOpacity,
		},
	}
}

type RectangleArgs struct {
	X           float64
	Y           float64
	Width       float64
	Height      float64
	Name        string
	FillColor   string
	FillOpacity float64
	StrokeColor string
	StrokeWidth float64
	Rx          float64
	Ry          float64
}

func NewRectangle(args *RectangleArgs) map[string]any {
	name := args.Name
	if name == "" {
		name = "Rectangle"
	}
	fillColor := args.FillColor
	if fillColor == "" {
		fillColor = "#000000"
	}
	fillOpacity := args.FillOpacity
	if fillOpacity == 0 {
		fillOpacity = 1.0
	}

	rect := map[string]any{
		"type":   "rect",
		"name":   name,
		"x":      args.X,
		"y":      args.Y,
		"width":  args.Width,
		"height": args.Height,
		"fills":  solidFill(fillColor, fillOpacity),
	}
	if 0 < args.Rx || 0 < args.Ry {
		rect["rx"] = args.Rx
		rect["ry"] = args.Ry
	}
	if args.StrokeColor != "" && 0 < args.StrokeWidth {
		rect["strokes"] = []map[string]any{
			{
				"stroke-color": args.StrokeColor,
				"stroke-width": args.StrokeWidth,
			},
		}
	}
	return addGeometry(rect, args.X, args.Y, args.Width, args.Height)
}

type CircleArgs struct {
	Cx          float64
	Cy          float64
	Radius      float64
	Name        string
	FillColor   string
	FillOpacity float64
	StrokeColor string
	StrokeWidth float64
}

// NewCircle positions the shape by its top-left corner, as the backend
// expects.
func NewCircle(args *CircleArgs) map[string]any {
	name := args.Name
	if name == "" {
		name = "Circle"
	}
	fillColor := args.FillColor
	if fillColor == "" {
		fillColor = "#000000"
	}
	fillOpacity := args.FillOpacity
	if fillOpacity == 0 {
		fillOpacity = 1.0
	}

	x := args.Cx - args.Radius
	y := args.Cy - args.Radius
	size := args.Radius * 2

	circle := map[string]any{
		"type":   "circle",
		"name":   name,
		"x":      x,
		"y":      y,
		"width":  size,
		"height": size,
		"fills":  solidFill(fillColor, fillOpacity),
	}
	if args.StrokeColor != "" && 0 < args.StrokeWidth {
		circle["strokes"] = []map[string]any{
			{
				"stroke-color": args.StrokeColor,
				"stroke-width": args.StrokeWidth,
			},
		}
	}
	return addGeometry(circle, x, y, size, size)
}

type TextArgs struct {
	X          float64
	Y          float64
	Content    string
	Name       string
	FontSize   int
	FontFamily string
	FillColor  string
	FontWeight string
	Width      float64
	Height     float64
}

// NewText builds a text shape. The color must live inside the content
// tree, not just at the object level; the editor reads it from the
// paragraph and text nodes. The content tree's structural type names
// (root, paragraph-set, paragraph) stay plain strings on the wire.
func NewText(args *TextArgs) map[string]any {
	name := args.Name
	if name == "" {
		name = "Text"
	}
	fontSize := args.FontSize
	if fontSize == 0 {
		fontSize = 16
	}
	fontFamily := args.FontFamily
	if fontFamily == "" {
		fontFamily = "Work Sans"
	}
	fillColor := args.FillColor
	if fillColor == "" {
		fillColor = "#000000"
	}
	fontWeight := args.FontWeight
	if fontWeight == "" {
		fontWeight = "normal"
	}

	fills := solidFill(fillColor, 1.0)

	content := map[string]any{
		"type": "root",
		"children": []map[string]any{
			{
				"type": "paragraph-set",
				"children": []map[string]any{
					{
						"type":  "paragraph",
						"fills": fills,
						"children": []map[string]any{
							{
								"text":        args.Content,
								"font-family": fontFamily,
								"font-size":   fmt.Sprintf("%d", fontSize),
								"font-weight": fontWeight,
								"fills":       fills,
							},
						},
					},
				},
			},
		},
	}

	width := args.Width
	if width == 0 {
		width = max(float64(len(args.Content))*float64(fontSize)*0.6, 10)
	}
	height := args.Height
	if height == 0 {
		height = float64(fontSize) * 1.5
	}

	text := map[string]any{
		"type":    "text",
		"name":    name,
		"x":       args.X,
		"y":       args.Y,
		"width":   width,
		"height":  height,
		"content": content,
		"fills":   fills,
	}
	return addGeometry(text, args.X, args.Y, width, height)
}

type FrameArgs struct {
	X               float64
	Y               float64
	Width           float64
	Height          float64
	Name            string
	BackgroundColor string
}

// NewFrame builds an artboard container.
func NewFrame(args *FrameArgs) map[string]any {
	name := args.Name
	if name == "" {
		name = "Frame"
	}

	frame := map[string]any{
		"type":   "frame",
		"name":   name,
		"x":      args.X,
		"y":      args.Y,
		"width":  args.Width,
		"height": args.Height,
		// frames carry a shapes list, initially empty
		"shapes": []any{},
	}
	if args.BackgroundColor != "" {
		frame["fills"] = solidFill(args.BackgroundColor, 1.0)
	}
	return addGeometry(frame, args.X, args.Y, args.Width, args.Height)
}

func NewGroup(name string) map[string]any {
	if name == "" {
		name = "Group"
	}
	return map[string]any{
		"type": "group",
		"name": name,
	}
}

type PathPoint struct {
	X float64
	Y float64
}

type PathArgs struct {
	Points      []PathPoint
	Closed      bool
	FillColor   string
	StrokeColor string
	StrokeWidth float64
	Name        string
}

// NewPath builds a vector path from a point list (move, line commands,
// optional close).
func NewPath(args *PathArgs) (map[string]any, error) {
	if len(args.Points) < 2 {
		return nil, fmt.Errorf("path must have at least 2 points")
	}
	name := args.Name
	if name == "" {
		name = "Path"
	}

	commands := []map[string]any{
		{
			"command": "M",
			"params":  map[string]any{"x": args.Points[0].X, "y": args.Points[0].Y},
		},
	}
	for _, point := range args.Points[1:] {
		commands = append(commands, map[string]any{
			"command": "L",
			"params":  map[string]any{"x": point.X, "y": point.Y},
		})
	}
	if args.Closed {
		commands = append(commands, map[string]any{
			"command": "Z",
			"params":  map[string]any{},
		})
	}

	minX, maxX := args.Points[0].X, args.Points[0].X
	minY, maxY := args.Points[0].Y, args.Points[0].Y
	for _, point := range args.Points[1:] {
		minX = min(minX, point.X)
		maxX = max(maxX, point.X)
		minY = min(minY, point.Y)
		maxY = max(maxY, point.Y)
	}
	width := maxX - minX
	if width <= 0 {
		width = 1
	}
	height := maxY - minY
	if height <= 0 {
		height = 1
	}

	path := map[string]any{
		"type":    "path",
		"name":    name,
		"x":       minX,
		"y":       minY,
		"width":   width,
		"height":  height,
		"content": commands,
	}
	if args.FillColor != "" {
		path["fills"] = solidFill(args.FillColor, 1.0)
	}
	if args.StrokeColor != "" && 0 < args.StrokeWidth {
		path["strokes"] = []map[string]any{
			{
				"stroke-color": args.StrokeColor,
				"stroke-width": args.StrokeWidth,
			},
		}
	}
	return path, nil
}

var booleanOperations = map[string]bool{
	"union":        true,
	"difference":   true,
	"intersection": true,
	"exclusion":    true,
}

// NewBooleanShape combines existing shapes with a boolean operation.
func NewBooleanShape(operation string, shapeIds []string, name string) (map[string]any, error) {
	if !booleanOperations[operation] {
		return nil, fmt.Errorf("invalid boolean operation %q", operation)
	}
	if len(shapeIds) < 2 {
		return nil, fmt.Errorf("boolean shape requires at least 2 shapes")
	}
	if name == "" {
		name = "Boolean"
	}
	return map[string]any{
		"type":      "bool",
		"name":      name,
		"bool-type": operation,
		"shapes":    shapeIds,
	}, nil
}

type GradientArgs struct {
	// "linear" or "radial"
	Type       string
	StartColor string
	EndColor   string
	StartX     float64
	StartY     float64
	EndX       float64
	EndY       float64
}

func NewGradientFill(args *GradientArgs) (map[string]any, error) {
	if args.Type != "linear" && args.Type != "radial" {
		return nil, fmt.Errorf("invalid gradient type %q", args.Type)
	}
	return map[string]any{
		"type":        fmt.Sprintf("%s-gradient", args.Type),
		"start-color": args.StartColor,
		"end-color":   args.EndColor,
		"start-x":     args.StartX,
		"start-y":     args.StartY,
		"end-x":       args.EndX,
		"end-y":       args.EndY,
	}, nil
}

type StrokeArgs struct {
	Color string
	Width float64
	// solid, dashed, dotted, mixed
	Style string
	// round, square, butt
	Cap string
	// round, bevel, miter
	Join string
}

func NewStroke(args *StrokeArgs) map[string]any {
	width := args.Width
	if width == 0 {
		width = 1.0
	}
	style := args.Style
	if style == "" {
		style = "solid"
	}
	cap_ := args.Cap
	if cap_ == "" {
		cap_ = "round"
	}
	join := args.Join
	if join == "" {
		join = "round"
	}
	return map[string]any{
		"stroke-color": args.Color,
		"stroke-width": width,
		"stroke-style": style,
		"stroke-cap":   cap_,
		"stroke-join":  join,
	}
}

type ShadowArgs struct {
	Color   string
	OffsetX float64
	OffsetY float64
	Blur    float64
	Spread  float64
	Hidden  bool
}

func NewShadow(args *ShadowArgs) map[string]any {
	return map[string]any{
		"color":    args.Color,
		"offset-x": args.OffsetX,
		"offset-y": args.OffsetY,
		"blur":     args.Blur,
		"spread":   args.Spread,
		"hidden":   args.Hidden,
	}
}

// NewBlur builds a layer-blur or background-blur effect.
func NewBlur(blurType string, value float64, hidden bool) (map[string]any, error) {
	if blurType != "layer-blur" && blurType != "background-blur" {
		return nil, fmt.Errorf("invalid blur type %q", blurType)
	}
	return map[string]any{
		"type":   blurType,
		"value":  value,
		"hidden": hidden,
	}, nil
}
