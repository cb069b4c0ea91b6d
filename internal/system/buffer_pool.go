package system

import (
	"image"
	"sync"
)

// grayPool reuses *image.Gray buffers across pipeline stages and pages to
// reduce GC pressure. Every stage that takes a buffer from the pool writes
// all of its pixels, so buffers are handed out without clearing.
type grayPool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &grayPool{
	pools: make(map[string]*sync.Pool),
}

// GetGray returns a *image.Gray for the given bounds, reusing a pooled
// buffer when one of matching size is available.
func GetGray(rect image.Rectangle) *image.Gray {
	return globalPool.get(rect)
}

// PutGray returns a buffer to the pool for reuse.
func PutGray(img *image.Gray) {
	globalPool.put(img)
}

func (p *grayPool) get(rect image.Rectangle) *image.Gray {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewGray(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.Gray)
}

func (p *grayPool) put(img *image.Gray) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
