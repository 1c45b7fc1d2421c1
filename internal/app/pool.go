package app

import (
	"bytes"
	"os"

	"depcore/internal/shared"
)

// PoolDump serializes the pool stored under req.CacheKey to a ".solv"
// file at req.DestPath.
func (s *Service) PoolDump(req PoolDumpRequest) error {
	data, ok, err := s.PoolCache.Get(req.CacheKey)
	if err != nil {
		return err
	}
	if !ok {
		return shared.WrapNotFound("app", "no cached pool under key "+req.CacheKey)
	}
	return os.WriteFile(req.DestPath, data, 0o644)
}

// PoolLoad reads a ".solv" file at req.SrcPath and makes it the
// service's working pool, also writing it to the pool cache under
// req.CacheKey.
func (s *Service) PoolLoad(req PoolLoadRequest) error {
	f, err := os.Open(req.SrcPath)
	if err != nil {
		return shared.WrapInternal("app", "opening pool file "+req.SrcPath, err)
	}
	defer f.Close()

	p, err := s.PoolFile.Read(f)
	if err != nil {
		return err
	}
	s.Pool = p

	if req.CacheKey != "" {
		var buf bytes.Buffer
		if err := s.PoolFile.Write(&buf, p); err != nil {
			return err
		}
		if err := s.PoolCache.Put(req.CacheKey, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
