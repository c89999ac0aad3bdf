package rasterio

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// SGRD layout, little-endian:
//
//	magic   [4]byte "SGRD"
//	version uint16
//	flags   uint16 (reserved, 0)
//	hdrLen  uint32
//	header  JSON, hdrLen bytes
//	payload zstd stream of Width*Height float64 samples, row-major
const (
	sgrdMagic     = "SGRD"
	sgrdVersion   = 1
	maxHeaderSize = 1 << 20
)

type sgrdHeader struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Transform [6]float64 `json:"transform"`
	CRS       string     `json:"crs"`
	NoData    *float64   `json:"nodata,omitempty"`
}

// SGRD is the native compressed grid format.
type SGRD struct{}

func (SGRD) Name() string        { return "sgrd" }
func (SGRD) Extension() string   { return ".sgrd" }
func (SGRD) ContentType() string { return "application/x-sgrd" }

// Encode writes g.
func (SGRD) Encode(w io.Writer, g *raster.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	hdr := sgrdHeader{Width: g.Width, Height: g.Height, Transform: g.Transform, CRS: g.CRS}
	if g.HasNoData {
		nd := g.NoData
		hdr.NoData = &nd
	}
	hdrBytes, err := json.Marshal(hdr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeRasterEncode, "marshal sgrd header")
	}

	pre := make([]byte, 12)
	copy(pre, sgrdMagic)
	binary.LittleEndian.PutUint16(pre[4:], sgrdVersion)
	binary.LittleEndian.PutUint32(pre[8:], uint32(len(hdrBytes)))
	if _, err := w.Write(pre); err != nil {
		return errors.Wrap(err, errors.ErrCodeRasterEncode, "write sgrd preamble")
	}
	if _, err := w.Write(hdrBytes); err != nil {
		return errors.Wrap(err, errors.ErrCodeRasterEncode, "write sgrd header")
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeRasterEncode, "create zstd encoder")
	}
	bw := bufio.NewWriter(enc)
	var sample [8]byte
	for _, v := range g.Data {
		binary.LittleEndian.PutUint64(sample[:], math.Float64bits(v))
		if _, err := bw.Write(sample[:]); err != nil {
			enc.Close()
			return errors.Wrap(err, errors.ErrCodeRasterEncode, "write sgrd samples")
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return errors.Wrap(err, errors.ErrCodeRasterEncode, "flush sgrd samples")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeRasterEncode, "close zstd encoder")
	}
	return nil
}

// Decode reads a grid written by Encode.
func (SGRD) Decode(r io.Reader) (*raster.Grid, error) {
	pre := make([]byte, 12)
	if _, err := io.ReadFull(r, pre); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "read sgrd preamble")
	}
	if string(pre[:4]) != sgrdMagic {
		return nil, errors.New(errors.ErrCodeRasterDecode, "not an sgrd stream")
	}
	if v := binary.LittleEndian.Uint16(pre[4:]); v != sgrdVersion {
		return nil, errors.New(errors.ErrCodeRasterUnsupported, "unsupported sgrd version").WithDetailf("version=%d", v)
	}
	n := binary.LittleEndian.Uint32(pre[8:])
	if n == 0 || n > maxHeaderSize {
		return nil, errors.New(errors.ErrCodeRasterDecode, "bad sgrd header length").WithDetailf("length=%d", n)
	}
	hdrBytes := make([]byte, n)
	if _, err := io.ReadFull(r, hdrBytes); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "read sgrd header")
	}
	var hdr sgrdHeader
	if err := json.Unmarshal(hdrBytes, &hdr); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "parse sgrd header")
	}

	g, err := raster.New(hdr.Width, hdr.Height, raster.Transform(hdr.Transform), hdr.CRS)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "sgrd header")
	}
	if hdr.NoData != nil {
		g.NoData, g.HasNoData = *hdr.NoData, true
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRasterDecode, "create zstd decoder")
	}
	defer dec.Close()
	br := bufio.NewReader(dec)
	var sample [8]byte
	for i := range g.Data {
		if _, err := io.ReadFull(br, sample[:]); err != nil {
			return nil, errors.New(errors.ErrCodeRasterDecode, "truncated sgrd samples").
				WithDetailf("sample=%d of %d", i, len(g.Data)).WithCause(err)
		}
		g.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(sample[:]))
	}
	return g, nil
}

//Personal.AI order the ending
