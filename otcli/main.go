package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/glyphpath/core/font"
	"github.com/npillmayer/glyphpath/ot"
	"github.com/npillmayer/glyphpath/otglyph"
	"github.com/npillmayer/glyphpath/otquery"
	"github.com/npillmayer/glyphpath/otsvg"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'glyphpath.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphpath.fonts")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       "go",
		"trace.glyphpath.fonts": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (file path or system font name)")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the glyph-path CLI")
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("glyph > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, location: otglyph.Location{}}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	tracer().SetTraceLevel(tracing.LevelDebug)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font     *ot.Font
	dec      *otglyph.Decoder
	repl     *readline.Instance
	location otglyph.Location
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	arg  string
	opt  string
}

type Command struct {
	count int
	op    [32]Op
}

const (
	QUIT int = iota
	HELP
	TABLES
	INFO
	AXES
	INSTANCES
	LOCATION
	GLYPH
	PATH
	SVG
	METRICS
)

func (intp *Intp) parseCommand(line string) (*Command, error) {
	command := &Command{}
	steps := strings.Split(line, " ")
	command.count = len(steps)
	for i, step := range steps {
		command.op[i].arg = ""
		if strings.Contains(step, "=") { // e.g.  "wght=600"
			command.op[i].code = LOCATION
			command.op[i].arg = step
			continue
		}
		c := strings.Split(step, ":") // e.g.  "glyph:A" or "path:A:svg" or "help"
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].opt = getOptArg(c, 2)
		switch strings.ToLower(c[0]) {
		case "quit":
			command.op[i].code = QUIT
		case "tables":
			command.op[i].code = TABLES
		case "info":
			command.op[i].code = INFO
		case "axes":
			command.op[i].code = AXES
		case "instances":
			command.op[i].code = INSTANCES
		case "default":
			command.op[i].code = LOCATION
		case "glyph":
			command.op[i].code = GLYPH
		case "path":
			command.op[i].code = PATH
			if strings.ToLower(command.op[i].opt) == "svg" {
				command.op[i].code = SVG
			}
		case "metrics":
			command.op[i].code = METRICS
		default:
			command.op[i].code = HELP
		}
	}
	return command, nil
}

func (intp *Intp) execute(cmd *Command) (error, bool) {
	if cmd.op[0].code == HELP {
		help()
		return nil, false
	}
	if cmd.op[0].code == QUIT {
		return nil, true
	}
	for i := 0; i < cmd.count; i++ {
		c := cmd.op[i]
		switch c.code {
		case TABLES:
			pterm.Printfln("font tables: %v", intp.font.TableTags())
		case INFO:
			pterm.Printfln("font type: %s", otquery.FontType(intp.font))
			for key, val := range otquery.NameInfo(intp.font) {
				pterm.Printfln("%-10s %s", key, val)
			}
			m := otquery.FontMetrics(intp.font)
			pterm.Printfln("units/em=%d ascent=%d descent=%d linegap=%d",
				m.UnitsPerEm, m.Ascent, m.Descent, m.LineGap)
		case AXES:
			axes := otquery.AxisList(intp.font)
			if len(axes) == 0 {
				pterm.Println("font has no variation axes")
			}
			for _, ax := range axes {
				pterm.Printfln("axis %s  [%g … %g … %g]  %s",
					ax.Tag, ax.Minimum, ax.Default, ax.Maximum, ax.Name)
			}
		case INSTANCES:
			for _, inst := range otquery.NamedInstances(intp.font) {
				pterm.Printfln("%-24s %v", inst.Name, inst.Coordinates)
			}
		case LOCATION:
			if err := intp.setLocation(c.arg); err != nil {
				return err, false
			}
			pterm.Printfln("design-space location now %v", intp.location)
		case GLYPH:
			gid, err := intp.glyphArg(c.arg)
			if err != nil {
				return err, false
			}
			outline, err := intp.dec.Outline(gid, intp.location)
			if err != nil {
				return err, false
			}
			pterm.Printfln("glyph %d has %d contours, %d points",
				gid, outline.ContourCount(), len(outline.Points))
			for i := 0; i < outline.ContourCount(); i++ {
				pterm.Printfln("  contour %d: %d points", i, len(outline.Contour(i)))
			}
		case PATH, SVG:
			gid, err := intp.glyphArg(c.arg)
			if err != nil {
				return err, false
			}
			cmds, err := intp.dec.Path(gid, intp.location)
			if err != nil {
				return err, false
			}
			if c.code == SVG {
				pterm.Println(otsvg.PathData(cmds, otsvg.Options{Precision: 2}))
			} else {
				for _, pc := range cmds {
					pterm.Println(pc.String())
				}
			}
		case METRICS:
			gid, err := intp.glyphArg(c.arg)
			if err != nil {
				return err, false
			}
			m := otquery.GlyphMetrics(intp.font, gid)
			pterm.Printfln("glyph %d: advance=%d lsb=%d rsb=%d bbox=%v",
				gid, m.Advance, m.LSB, m.RSB, m.BBox)
		}
	}
	return nil, false
}

// glyphArg resolves a command argument to a glyph: either a numeric glyph
// ID, prefixed with '#', or a character to look up in the cmap.
func (intp *Intp) glyphArg(arg string) (ot.GlyphIndex, error) {
	if arg == "" {
		return 0, fmt.Errorf("glyph argument missing; try 'glyph:A' or 'glyph:#36'")
	}
	if strings.HasPrefix(arg, "#") {
		gid, err := strconv.Atoi(arg[1:])
		if err != nil {
			return 0, fmt.Errorf("glyph ID not numeric: %v", arg)
		}
		return ot.GlyphIndex(gid), nil
	}
	r := []rune(arg)[0]
	gid := otquery.GlyphIndex(intp.font, r)
	if gid == 0 {
		pterm.Printfln("font has no glyph for %q, using .notdef", r)
	}
	return gid, nil
}

// setLocation interprets an axis assignment like "wght=600", or resets the
// location for the argument "default".
func (intp *Intp) setLocation(arg string) error {
	if arg == "" { // command was "default"
		intp.location = otglyph.Location{}
		return nil
	}
	parts := strings.SplitN(arg, "=", 2)
	val, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("axis value not numeric: %v", parts[1])
	}
	intp.location[ot.T(parts[0])] = val
	return nil
}

func (intp *Intp) loadFont(fontname string) error {
	if fontname == "" {
		return fmt.Errorf("no font given; use -font with a file path or system font name")
	}
	f, err := font.FindFont(fontname)
	if err != nil {
		return err
	}
	tracer().Infof("loaded SFNT font = %s", f.Fontname)
	intp.font, err = ot.Parse(f.Binary)
	if err != nil {
		return err
	}
	if intp.dec, err = otglyph.NewDecoder(intp.font); err != nil {
		return err
	}
	pterm.Printfln("font tables: %v", intp.font.TableTags())
	return nil
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	tables          list the tables contained in the font
	info            font type, names and global metrics
	axes            design-space axes of a variable font
	instances       named design-space instances
	wght=600        set an axis value of the current location
	default         reset the location to the axis defaults
	glyph:A         decode the outline of a glyph ('#36' for a glyph ID)
	path:A          print the path commands of a glyph
	path:A:svg      print the path of a glyph as SVG path data
	metrics:A       advance, side bearings and bounding box of a glyph
	quit            exit (or <ctrl>D)
	`)
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}
