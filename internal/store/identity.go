// Alert ID 발급 상태 저장소 정의
// 휘발성 AlertKey(groupKey/fingerprint)를 사람이 읽을 수 있는 고정 ID로 매핑
//
// 동작 원리:
//  1. 프로세스 시작 시 카운터/매핑 파일을 로드 (없으면 기본값으로 시작)
//  2. ResolveOrAllocate: 기존 키면 저장된 ID 반환, 새 키면 카운터 증가 후 발급
//  3. 발급 시마다 두 파일을 전체 재기록 (커밋 완료 전에는 ID를 반환하지 않음)
//
// 매핑은 삭제되지 않음. 알림 카탈로그 규모가 한정되어 있다는 전제의
// 단순화이며, 장기 운영 시에는 외부에서 보관 정책을 정해야 함

package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	counterFile = "alertIdCounter.json"
	mappingFile = "alertMapping.json"

	// 첫 발급 ID가 PREFIX-101이 되도록 100부터 시작
	defaultCounter = 100
)

// counterRecord - 카운터 파일 포맷: {"counter": N}
type counterRecord struct {
	Counter int `json:"counter"`
}

// IdentityStore 구조체 정의
// counter/mapping은 mu로 직렬화됨 (동시 요청 간 카운터 레이스 방지)
type IdentityStore struct {
	mu      sync.Mutex
	counter int
	mapping map[string]string

	prefix      string
	counterPath string
	mappingPath string
}

// IdentityStore 객체 생성 및 기존 상태 로드
// 파일이 없거나 읽을 수 없으면 기본값으로 시작 (첫 실행에서는 정상 상황)
func Open(dir, prefix string) *IdentityStore {
	s := &IdentityStore{
		counter:     defaultCounter,
		mapping:     make(map[string]string),
		prefix:      prefix,
		counterPath: filepath.Join(dir, counterFile),
		mappingPath: filepath.Join(dir, mappingFile),
	}

	// 1. 카운터 로드
	if data, err := os.ReadFile(s.counterPath); err == nil {
		var rec counterRecord
		if err := json.Unmarshal(data, &rec); err == nil && rec.Counter > 0 {
			s.counter = rec.Counter
			log.Printf("Loaded alert ID counter: %d", s.counter)
		} else {
			log.Printf("Counter file unreadable, starting counter at %d", defaultCounter)
		}
	} else {
		log.Printf("Counter file not found, starting counter at %d", defaultCounter)
	}

	// 2. 매핑 로드
	if data, err := os.ReadFile(s.mappingPath); err == nil {
		var mapping map[string]string
		if err := json.Unmarshal(data, &mapping); err == nil {
			s.mapping = mapping
			log.Printf("Loaded alert mapping with %d entries", len(mapping))
		} else {
			log.Printf("Mapping file unreadable, starting with empty mapping")
		}
	} else {
		log.Printf("Mapping file not found, starting with empty mapping")
	}

	return s
}

// ResolveOrAllocate - AlertKey에 대한 고정 Alert ID 반환
//
// 기존 키: 저장된 ID를 그대로 반환 (상태 변경 없음, allocated=false)
// 새 키: 카운터 증가 → ID 생성 → 매핑 등록 → 두 파일 영속화 → 반환
//
// 영속화에 실패하면 메모리 변경을 롤백하고 에러를 반환함
// (디스크에 없는 ID를 커밋된 것처럼 반환하면 재시작 후 같은 키에
// 다른 ID가 발급될 수 있으므로 유일성 보장이 깨짐)
func (s *IdentityStore) ResolveOrAllocate(key string) (alertID string, allocated bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.mapping[key]; ok {
		return id, false, nil
	}

	s.counter++
	id := fmt.Sprintf("%s-%03d", s.prefix, s.counter)
	s.mapping[key] = id

	if err := s.persistLocked(); err != nil {
		// 롤백: 커밋되지 않은 발급은 없었던 것으로 되돌림
		s.counter--
		delete(s.mapping, key)
		return "", false, fmt.Errorf("failed to persist identity store: %w", err)
	}

	return id, true, nil
}

// persistLocked - 카운터와 매핑을 전체 재기록 (호출자가 mu를 잡고 있어야 함)
func (s *IdentityStore) persistLocked() error {
	counterData, err := json.Marshal(counterRecord{Counter: s.counter})
	if err != nil {
		return fmt.Errorf("failed to marshal counter: %w", err)
	}
	mappingData, err := json.Marshal(s.mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(s.counterPath, counterData, 0o644); err != nil {
		return fmt.Errorf("failed to write counter file: %w", err)
	}
	if err := os.WriteFile(s.mappingPath, mappingData, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file: %w", err)
	}
	return nil
}

// Counter - 현재 카운터 값 (로깅/테스트용)
func (s *IdentityStore) Counter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Len - 등록된 매핑 개수 (로깅/테스트용)
func (s *IdentityStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mapping)
}
