// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import "encoding/binary"

// Key layout. History messages live under a per-conversation prefix with a
// big-endian sequence suffix so that prefix iteration yields messages in
// insertion order. Index metadata lives under a flat "index:" namespace.
const (
	historyPrefix = "hist:"
	indexPrefix   = "index:"

	messageSequenceName = "hist-seq"
)

func historyKeyPrefix(conversation string) []byte {
	return []byte(historyPrefix + conversation + ":")
}

func historyKey(conversation string, seq uint64) []byte {
	prefix := historyKeyPrefix(conversation)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], seq)
	return key
}

func indexKey(name string) []byte {
	return []byte(indexPrefix + name)
}
