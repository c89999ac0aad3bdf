package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Jhuly1215/SimulacionInvasores/internal/config"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/rasterio"
	apperrors "github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

type RepositoryTestSuite struct {
	suite.Suite
	api  *MockObjectAPI
	repo *RasterRepository
	grid *raster.Grid
}

func (s *RepositoryTestSuite) SetupTest() {
	s.api = new(MockObjectAPI)
	s.api.On("BucketExists", mock.Anything, "grids").Return(true, nil).Once()
	c, err := NewClientWithAPI(context.Background(), s.api, config.MinIOConfig{Bucket: "grids"}, logging.NewNopLogger())
	s.Require().NoError(err)
	s.repo = NewRasterRepository(c, nil, logging.NewNopLogger())

	g, err := raster.NewFilled(2, 2, raster.NorthUp(0, 2, 1, 1), "EPSG:32633", 0.5)
	s.Require().NoError(err)
	s.grid = g
}

func (s *RepositoryTestSuite) TestObjectName() {
	name, c := s.repo.ObjectName("dem/srtm")
	s.Equal("rasters/dem/srtm.sgrd", name)
	s.Equal("sgrd", c.Name())

	name, c = s.repo.ObjectName("/bio/bio1.asc")
	s.Equal("rasters/bio/bio1.asc", name)
	s.Equal("asc", c.Name())
}

func (s *RepositoryTestSuite) TestPutOpen_RoundTrip() {
	var stored []byte
	s.api.On("PutObject", mock.Anything, "grids", "rasters/out/t000.sgrd", mock.Anything, mock.Anything, mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "application/x-sgrd" && o.UserMetadata["width"] == "2" && o.UserMetadata["crs"] == "EPSG:32633"
	})).Run(func(args mock.Arguments) {
		stored, _ = io.ReadAll(args.Get(3).(io.Reader))
	}).Return(minio.UploadInfo{Size: 10}, nil)
	s.Require().NoError(s.repo.Put(context.Background(), "out/t000", s.grid))
	s.Require().NotEmpty(stored)

	s.api.On("StatObject", mock.Anything, "grids", "rasters/out/t000.sgrd", mock.Anything).Return(minio.ObjectInfo{}, nil)
	s.api.On("GetObject", mock.Anything, "grids", "rasters/out/t000.sgrd", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(stored)), nil)
	g, err := s.repo.Open(context.Background(), "out/t000")
	s.Require().NoError(err)
	s.Equal(s.grid, g)
}

func (s *RepositoryTestSuite) TestOpen_NotFound() {
	s.api.On("StatObject", mock.Anything, "grids", "rasters/dem.sgrd", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
	_, err := s.repo.Open(context.Background(), "dem")
	s.True(apperrors.IsNotFound(err))
	s.ErrorIs(err, ErrObjectNotFound)
	s.api.AssertNotCalled(s.T(), "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RepositoryTestSuite) TestOpen_CorruptPayload() {
	s.api.On("StatObject", mock.Anything, "grids", "rasters/dem.sgrd", mock.Anything).Return(minio.ObjectInfo{}, nil)
	s.api.On("GetObject", mock.Anything, "grids", "rasters/dem.sgrd", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("garbage-bytes"))), nil)
	_, err := s.repo.Open(context.Background(), "dem")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeRasterDecode))
}

func (s *RepositoryTestSuite) TestPut_UploadError() {
	s.api.On("PutObject", mock.Anything, "grids", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("503"))
	err := s.repo.Put(context.Background(), "x", s.grid)
	s.True(apperrors.IsCode(err, apperrors.CodeStorageError))
}

func (s *RepositoryTestSuite) TestExists() {
	s.api.On("StatObject", mock.Anything, "grids", "rasters/a.sgrd", mock.Anything).Return(minio.ObjectInfo{}, nil)
	s.api.On("StatObject", mock.Anything, "grids", "rasters/b.sgrd", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	ok, err := s.repo.Exists(context.Background(), "a")
	s.NoError(err)
	s.True(ok)
	ok, err = s.repo.Exists(context.Background(), "b")
	s.NoError(err)
	s.False(ok)
}

func (s *RepositoryTestSuite) TestDelete_MissingIsNotAnError() {
	s.api.On("RemoveObject", mock.Anything, "grids", "rasters/gone.sgrd", mock.Anything).
		Return(minio.ErrorResponse{Code: "NoSuchKey"})
	s.NoError(s.repo.Delete(context.Background(), "gone"))
}

func (s *RepositoryTestSuite) TestList() {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "rasters/simulation/r1/infested_t000.sgrd", Size: 100}
	ch <- minio.ObjectInfo{Key: "rasters/simulation/r1/infested_t001.sgrd", Size: 120}
	close(ch)
	s.api.On("ListObjects", mock.Anything, "grids", minio.ListObjectsOptions{Prefix: "rasters/simulation/r1/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	objs, err := s.repo.List(context.Background(), "simulation/r1/")
	s.Require().NoError(err)
	s.Require().Len(objs, 2)
	s.Equal("simulation/r1/infested_t000.sgrd", objs[0].Key)
	s.Equal(int64(120), objs[1].Size)
}

func (s *RepositoryTestSuite) TestClosedClient() {
	s.Require().NoError(s.repo.client.Close())
	_, err := s.repo.Open(context.Background(), "x")
	s.ErrorIs(err, ErrClientClosed)
	s.ErrorIs(s.repo.Put(context.Background(), "x", s.grid), ErrClientClosed)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

var _ rasterio.Codec = rasterio.SGRD{}

//Personal.AI order the ending
