package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 같은 키를 두 번 resolve하면 같은 ID가 나오고 카운터는 한 번만 증가
func TestResolveOrAllocateIdempotent(t *testing.T) {
	s := Open(t.TempDir(), "ALR-SWF")

	id1, allocated, err := s.ResolveOrAllocate("group-key-a")
	assert.NoError(t, err)
	assert.True(t, allocated)
	assert.Equal(t, "ALR-SWF-101", id1)

	id2, allocated, err := s.ResolveOrAllocate("group-key-a")
	assert.NoError(t, err)
	assert.False(t, allocated)
	assert.Equal(t, id1, id2)

	assert.Equal(t, 101, s.Counter())
	assert.Equal(t, 1, s.Len())
}

// 서로 다른 키는 발급 순서대로 증가하는 서로 다른 ID를 받음
func TestResolveOrAllocateUnique(t *testing.T) {
	s := Open(t.TempDir(), "ALR-SWF")

	id1, _, err := s.ResolveOrAllocate("key-1")
	assert.NoError(t, err)
	id2, _, err := s.ResolveOrAllocate("key-2")
	assert.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, "ALR-SWF-101", id1)
	assert.Equal(t, "ALR-SWF-102", id2)
}

// 같은 디렉터리로 다시 Open하면 발급 이력이 그대로 복원됨
func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s1 := Open(dir, "ALR-SWF")
	id, _, err := s1.ResolveOrAllocate("key-1")
	assert.NoError(t, err)

	// 재시작 시뮬레이션
	s2 := Open(dir, "ALR-SWF")
	assert.Equal(t, s1.Counter(), s2.Counter())

	got, allocated, err := s2.ResolveOrAllocate("key-1")
	assert.NoError(t, err)
	assert.False(t, allocated)
	assert.Equal(t, id, got)
	assert.Equal(t, s1.Counter(), s2.Counter())
}

// 깨진 파일은 기본값으로 대체 (기동 실패가 아님)
func TestOpenCorruptFilesFallsBack(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, counterFile), []byte("not json"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, mappingFile), []byte("{broken"), 0o644))

	s := Open(dir, "ALR-SWF")
	assert.Equal(t, defaultCounter, s.Counter())
	assert.Equal(t, 0, s.Len())
}

// 영속화 실패 시 발급은 커밋되지 않고 메모리 상태가 롤백됨
func TestAllocateRollbackOnPersistFailure(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "missing-subdir"), "ALR-SWF")

	_, _, err := s.ResolveOrAllocate("key-1")
	assert.Error(t, err)
	assert.Equal(t, defaultCounter, s.Counter())
	assert.Equal(t, 0, s.Len())

	// 재시도해도 카운터가 밀리지 않음
	_, _, err = s.ResolveOrAllocate("key-1")
	assert.Error(t, err)
	assert.Equal(t, defaultCounter, s.Counter())
}

// 서로 다른 새 키의 동시 발급에서도 ID 유일성이 유지됨
func TestConcurrentAllocation(t *testing.T) {
	s := Open(t.TempDir(), "ALR-SWF")

	const n = 25
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _, err := s.ResolveOrAllocate(fmt.Sprintf("key-%d", i))
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate alert ID %s", id)
		seen[id] = true
	}
	assert.Equal(t, defaultCounter+n, s.Counter())
}
