package domain

type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var Fonts = []string{
	"Arial",
	"Courier New",
	"Georgia",
	"Times New Roman",
	"Verdana",
	"Comic Sans MS",
	"Impact",
	"Franklin Gothic Medium",
}

var Colors = []Option{
	{Code: "black", Label: "Preto"},
	{Code: "gray", Label: "Cinza"},
	{Code: "white", Label: "Branco"},
	{Code: "blue", Label: "Azul"},
	{Code: "red", Label: "Vermelho"},
	{Code: "green", Label: "Verde"},
}

var Backgrounds = []Option{
	{Code: "white", Label: "Branco"},
	{Code: "lightgray", Label: "Cinza Claro"},
	{Code: "black", Label: "Preto"},
	{Code: "lightblue", Label: "Azul Claro"},
	{Code: "lightcoral", Label: "Vermelho Claro"},
	{Code: "lightgreen", Label: "Verde Claro"},
}

type OptionsResponse struct {
	Fonts           []string `json:"fonts"`
	Colors          []Option `json:"colors"`
	Backgrounds     []Option `json:"backgrounds"`
	MinFontSize     int      `json:"min_font_size"`
	MaxFontSize     int      `json:"max_font_size"`
	FontSizeStep    int      `json:"font_size_step"`
	DefaultFontSize int      `json:"default_font_size"`
}

func EditorOptions() *OptionsResponse {
	return &OptionsResponse{
		Fonts:           Fonts,
		Colors:          Colors,
		Backgrounds:     Backgrounds,
		MinFontSize:     MinFontSize,
		MaxFontSize:     MaxFontSize,
		FontSizeStep:    FontSizeStep,
		DefaultFontSize: DefaultFontSize,
	}
}
