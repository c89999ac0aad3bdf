package rasterio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// ASCII is the ESRI ASCII grid format.  It requires square, north-up pixels
// and carries no CRS; decoded grids take CRS from the codec, EPSG:4326 when
// unset.
type ASCII struct {
	CRS string
}

func (ASCII) Name() string        { return "asc" }
func (ASCII) Extension() string   { return ".asc" }
func (ASCII) ContentType() string { return "text/plain" }

// Encode writes the header and one text row per grid row.
func (ASCII) Encode(w io.Writer, g *raster.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	t := g.Transform
	if t.IsRotated() || t.PixelHeight() >= 0 || math.Abs(t.PixelWidth()+t.PixelHeight()) > 1e-9*math.Abs(t.PixelWidth()) {
		return errors.New(errors.ErrCodeRasterUnsupported, "ascii grids need square north-up pixels").
			WithDetailf("transform=%v", [6]float64(t))
	}
	minX, minY, _, _ := t.Bounds(g.Width, g.Height)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\nnrows %d\n", g.Width, g.Height)
	fmt.Fprintf(bw, "xllcorner %s\nyllcorner %s\n", htoa(minX), htoa(minY))
	fmt.Fprintf(bw, "cellsize %s\n", htoa(t.PixelWidth()))
	if g.HasNoData {
		fmt.Fprintf(bw, "NODATA_value %s\n", htoa(g.NoData))
	}
	for r := 0; r < g.Height; r++ {
		row := g.Data[r*g.Width : (r+1)*g.Width]
		for c, v := range row {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(ftoa(v))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeRasterEncode, "write ascii grid")
	}
	return nil
}

// Decode parses the header (keys are case-insensitive, xllcenter/yllcenter
// are accepted) followed by nrows×ncols whitespace-separated values.
func (a ASCII) Decode(r io.Reader) (*raster.Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	sc.Split(bufio.ScanWords)

	hdr := map[string]float64{}
	var first string
	for sc.Scan() {
		key := strings.ToLower(sc.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			first = sc.Text()
			break
		}
		if !sc.Scan() {
			return nil, errors.New(errors.ErrCodeRasterDecode, "ascii header truncated").WithDetail("key=" + key)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeRasterDecode, "bad ascii header value").WithDetail(key + "=" + sc.Text())
		}
		hdr[key] = v
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "read ascii grid")
	}

	for _, k := range []string{"ncols", "nrows", "cellsize"} {
		if _, ok := hdr[k]; !ok {
			return nil, errors.New(errors.ErrCodeRasterDecode, "ascii header missing key").WithDetail("key=" + k)
		}
	}
	w, h, cell := int(hdr["ncols"]), int(hdr["nrows"]), hdr["cellsize"]
	if !(cell > 0) {
		return nil, errors.New(errors.ErrCodeRasterDecode, "ascii cellsize must be positive")
	}
	x0, okX := hdr["xllcorner"]
	if c, ok := hdr["xllcenter"]; ok && !okX {
		x0, okX = c-cell/2, true
	}
	y0, okY := hdr["yllcorner"]
	if c, ok := hdr["yllcenter"]; ok && !okY {
		y0, okY = c-cell/2, true
	}
	if !okX || !okY {
		return nil, errors.New(errors.ErrCodeRasterDecode, "ascii header needs lower-left corner or centre")
	}

	crs := a.CRS
	if crs == "" {
		crs = raster.EPSG4326
	}
	g, err := raster.New(w, h, raster.NorthUp(x0, y0+float64(h)*cell, cell, cell), crs)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "ascii header")
	}
	if nd, ok := hdr["nodata_value"]; ok {
		g.NoData, g.HasNoData = nd, true
	}

	i := 0
	next := func(tok string) error {
		if i >= len(g.Data) {
			return errors.New(errors.ErrCodeRasterDecode, "ascii grid has extra values")
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return errors.New(errors.ErrCodeRasterDecode, "bad ascii sample").WithDetailf("index=%d value=%s", i, tok)
		}
		g.Data[i] = v
		i++
		return nil
	}
	if first != "" {
		if err := next(first); err != nil {
			return nil, err
		}
	}
	for sc.Scan() {
		if err := next(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "read ascii grid")
	}
	if i != len(g.Data) {
		return nil, errors.New(errors.ErrCodeRasterDecode, "ascii grid truncated").WithDetailf("values=%d want=%d", i, len(g.Data))
	}
	return g, nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// htoa formats header values without exponents; some readers reject them.
func htoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

//Personal.AI order the ending
