package layout

import "time"

// 该文件定义布局结果（显示列表），供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均为毫米，原点在页面左上角；字号为 pt。

// Result 保存布局后的页面、图片资源与文档元信息。
type Result struct {
	Pages  []Page                   `json:"pages"`
	Images map[string]ImageResource `json:"images"`
	Meta   DocumentMeta             `json:"meta"`
}

// ImageResource 是已解码并重新编码过的位图，Data 不写入调试 JSON。
type ImageResource struct {
	Name        string `json:"name"`
	Format      string `json:"format"` // "JPEG" | "PNG"
	PixelWidth  int    `json:"pixelWidth"`
	PixelHeight int    `json:"pixelHeight"`
	Data        []byte `json:"-"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Font 描述一次文字绘制使用的字形与字号。
type Font struct {
	Style string  `json:"style"` // ""、"B"、"I"、"BI"
	Size  float64 `json:"size"`  // pt
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
type Page struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Margin Margin     `json:"margin"`
	Rects  []Rect     `json:"rects,omitempty"`
	Lines  []Line     `json:"lines,omitempty"`
	Texts  []TextRun  `json:"texts"`
	Images []ImageBox `json:"images,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextRun 是单行文本，Y 为基线位置。
type TextRun struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Font    Font    `json:"font"`
	Color   Color   `json:"color"`
	Link    string  `json:"link,omitempty"`
}

// ImageBox 引用 Result.Images 中的资源并给出绘制位置。
type ImageBox struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形，Radius > 0 时为圆角矩形。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	StrokeColor *Color  `json:"strokeColor,omitempty"` // 为空表示不描边
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Subject   string    `json:"subject"`
	Creator   string    `json:"creator"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"createdAt"`
}
