package cmd

import (
	"crypto/md5"
	"errors"
	"fmt"
	"image"
	"image/color" // This is the standard library color package
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/config"
	"github.com/arcanaland/holocron/internal/store"

	colorize "github.com/fatih/color" // Renamed to avoid the conflict with image/color
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [card_id]",
	Short: "Display information about a specific card with ANSI art",
	Long: `Show displays a card from the card database next to ANSI terminal art
generated from its downloaded image. Use card ids like 'SOR-010'.

Examples:
  holocron show SOR-010
  holocron show --no-art shd-128`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID := strings.ToUpper(args[0])
		noArt, _ := cmd.Flags().GetBool("no-art")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
			return fmt.Errorf("card database not found at %s, run 'holocron build' first", cfg.Database)
		}

		st, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := st.GetCard(cmd.Context(), cardID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("card not found: %s", cardID)
		}
		if err != nil {
			return fmt.Errorf("error getting card: %w", err)
		}

		setName := c.SetID
		if s, err := st.GetSet(cmd.Context(), c.SetID); err == nil {
			setName = s.Name
		}

		var ansiArt string
		if !noArt {
			ansiPath, err := findAnsiFile(cfg.ImageDir, c)
			if err != nil {
				fmt.Println(colorize.YellowString("No art: %v", err))
			} else if ansiArt, err = loadAnsiArt(ansiPath); err != nil {
				return fmt.Errorf("error loading ANSI art: %w", err)
			}
		}

		// Display the card info with ANSI art
		displayCard(c, ansiArt, setName)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("no-art", false, "Only show the card information")
}

// cardImagePath is where the images command saves the front image of c
func cardImagePath(imageDir string, c *card.Card) string {
	number := strings.TrimPrefix(c.ID, c.SetID+"-")
	return filepath.Join(imageDir, "cards", c.SetID, number+".png")
}

// findAnsiFile returns the cached ANSI art of a card, generating it from the
// card image on first use
func findAnsiFile(imageDir string, c *card.Card) (string, error) {
	imagePath := cardImagePath(imageDir, c)
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return "", fmt.Errorf("no image for %s, run 'holocron images' to download it", c.ID)
	}

	cacheDir := filepath.Join(config.GetCacheDir(), "ansi_cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %v", err)
	}

	// Create a cache filename based on the image path
	cacheFilename := fmt.Sprintf("%x.ansi", md5.Sum([]byte(imagePath)))
	cachePath := filepath.Join(cacheDir, cacheFilename)

	// Check if we already have a cached version
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		return cachePath, nil
	}

	width, height := artSize(c)
	if err := generateAnsiArt(imagePath, cachePath, width, height); err != nil {
		return "", fmt.Errorf("failed to generate ANSI art: %v", err)
	}

	return cachePath, nil
}

// artSize is the art size in terminal cells; leaders and bases are printed
// in landscape
func artSize(c *card.Card) (width, height int) {
	switch c.CardType {
	case "Leader", "Base":
		return 40, 14
	default:
		return 28, 20
	}
}

// generateAnsiArt converts an image file to ANSI art and saves it to the specified output path
func generateAnsiArt(imagePath, outputPath string, width, height int) error {
	// Open the image file
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %v", err)
	}
	defer file.Close()

	// Decode the image
	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode image: %v", err)
	}

	ansiArt, err := imageToAnsi(img, width, height, true)
	if err != nil {
		return fmt.Errorf("failed to convert image to ANSI: %v", err)
	}

	if err := os.WriteFile(outputPath, []byte(ansiArt), 0644); err != nil {
		return fmt.Errorf("failed to write ANSI art to file: %v", err)
	}

	return nil
}

// imageToAnsi converts an image to ANSI art
func imageToAnsi(img image.Image, width, height int, trueColor bool) (string, error) {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder

	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Get the four pixels that will make up one character cell
			c1 := getColorAt(resized, x, y)
			c2 := getColorAt(resized, x+1, y)
			c3 := getColorAt(resized, x, y+1)
			c4 := getColorAt(resized, x+1, y+1)

			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			// Top pixels as foreground, bottom pixels as background
			fg := colorfulToColor(averageColor(col1, col2))
			bg := colorfulToColor(averageColor(col3, col4))

			buffer.WriteString(ansiColorString('▀', fg, bg, trueColor))
		}
		buffer.WriteString("\n")
	}

	return buffer.String(), nil
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255} // Return black for out-of-bounds
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// colorfulToColor converts a colorful.Color to a standard color.Color
func colorfulToColor(c colorful.Color) color.Color {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ansiColorString formats a character with ANSI color codes
func ansiColorString(char rune, fg, bg color.Color, trueColor bool) string {
	r1, g1, b1, _ := fg.RGBA()
	r2, g2, b2, _ := bg.RGBA()

	// Convert from uint32 to uint8 (RGBA() returns values in range 0-65535)
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	if trueColor {
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
			r1, g1, b1, r2, g2, b2, char)
	}

	return string(char)
}

// loadAnsiArt loads the ANSI art from a file
func loadAnsiArt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var aspectAttributes = map[card.Aspect]colorize.Attribute{
	card.Vigilance:  colorize.FgBlue,
	card.Command:    colorize.FgGreen,
	card.Aggression: colorize.FgRed,
	card.Cunning:    colorize.FgYellow,
	card.Villainy:   colorize.FgHiBlack,
	card.Heroism:    colorize.FgHiWhite,
}

// aspectString prints an aspect in its color
func aspectString(a card.CardAspect) string {
	name := string(a.Aspect)
	if a.Double {
		name += " ×2"
	}
	attr, ok := aspectAttributes[a.Aspect]
	if !ok {
		return name
	}
	return colorize.New(attr).Sprint(name)
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	// Ensure width is reasonable
	if width < 10 {
		width = 40
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		lineLen := utf8.RuneCountInString(currentLine)
		if lineLen == 0 {
			currentLine = word
		} else if lineLen+1+utf8.RuneCountInString(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// infoLines builds the text shown next to the art
func infoLines(c *card.Card, setName string, width int) []string {
	label := func(s string) string { return colorize.CyanString("%-9s", s) }

	name := c.Name
	if c.Unique {
		name = "✧ " + name
	}
	lines := []string{label("Card:") + colorize.HiWhiteString("%s", name)}
	if c.Subtitle != "" {
		lines = append(lines, label("")+colorize.WhiteString("%s", c.Subtitle))
	}
	lines = append(lines,
		label("Set:")+colorize.HiWhiteString("%s", setName),
		label("ID:")+colorize.HiWhiteString("%s", c.ID),
		label("Type:")+colorize.HiWhiteString("%s · %s", c.CardType, c.Rarity),
	)
	if c.VariantType != "" && c.VariantType != "Normal" {
		lines = append(lines, label("Variant:")+colorize.HiWhiteString("%s", c.VariantType))
	}
	if len(c.Aspects) > 0 {
		var names []string
		for _, a := range c.Aspects {
			names = append(names, aspectString(a))
		}
		lines = append(lines, label("Aspects:")+strings.Join(names, " "))
	}

	var stats []string
	for _, s := range []struct{ name, value string }{{"Cost", c.Cost}, {"Power", c.Power}, {"HP", c.HP}} {
		if s.value != "" {
			stats = append(stats, fmt.Sprintf("%s %s", s.name, colorize.HiWhiteString("%s", s.value)))
		}
	}
	if len(stats) > 0 {
		lines = append(lines, label("Stats:")+strings.Join(stats, "  "))
	}
	if len(c.Traits) > 0 {
		lines = append(lines, label("Traits:")+colorize.HiWhiteString("%s", strings.Join(c.Traits, ", ")))
	}
	if len(c.Arenas) > 0 {
		lines = append(lines, label("Arena:")+colorize.HiWhiteString("%s", strings.Join(c.Arenas, ", ")))
	}
	if len(c.Keywords) > 0 {
		lines = append(lines, label("Keywords:")+colorize.HiWhiteString("%s", strings.Join(c.Keywords, ", ")))
	}
	lines = append(lines, label("Artist:")+colorize.HiWhiteString("%s", c.Artist))

	texts := []struct{ title, text string }{
		{"Text:", c.FrontText},
		{"Epic Action:", c.EpicAction},
		{"Back:", c.BackText},
	}
	for _, t := range texts {
		if t.text == "" {
			continue
		}
		lines = append(lines, "", colorize.CyanString(t.title))
		for _, paragraph := range strings.Split(t.text, "\n") {
			lines = append(lines, wrapText(paragraph, width)...)
		}
	}
	return lines
}

// displayCard displays the card information with ANSI art
func displayCard(c *card.Card, ansiArt, setName string) {
	var ansiLines []string
	if ansiArt != "" {
		ansiLines = strings.Split(strings.TrimRight(ansiArt, "\n"), "\n")
	}
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		// Calculate the visible width (excluding ANSI escape sequences)
		visibleWidth := utf8.RuneCountInString(stripAnsi(line))
		if visibleWidth > maxAnsiWidth {
			maxAnsiWidth = visibleWidth
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80 // Default if we can't get terminal width
	}

	// We'll display the ANSI art on the left and info on the right
	spacing := 4
	infoStartCol := 0
	if maxAnsiWidth > 0 {
		infoStartCol = maxAnsiWidth + spacing
	}

	// Calculate available width for text, ensuring it's at least 20 characters
	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	info := infoLines(c, setName, infoWidth)

	fmt.Println()

	maxLines := max(len(ansiLines), len(info))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			visibleWidth := utf8.RuneCountInString(stripAnsi(ansiLines[i]))
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		if i < len(info) {
			fmt.Print(info[i])
		}

		fmt.Println()
	}

	fmt.Println()
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
