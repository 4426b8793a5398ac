package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the types persisted in badger.
// Field order is part of the storage format; append new fields at the end.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// MessageMUS serializes ChatMessage values.
var MessageMUS = messageMUS{}

type messageMUS struct{}

func (messageMUS) Marshal(m ChatMessage, bs []byte) (n int) {
	n = varint.Int.Marshal(int(m.Role), bs)
	n += ord.String.Marshal(m.Text, bs[n:])
	return n
}

func (messageMUS) Unmarshal(bs []byte) (m ChatMessage, n int, err error) {
	role, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return m, n, err
	}
	m.Role = Role(role)

	var n1 int
	m.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return m, n, err
}

func (messageMUS) Size(m ChatMessage) int {
	return varint.Int.Size(int(m.Role)) + ord.String.Size(m.Text)
}

// IndexInfoMUS serializes IndexInfo values.
var IndexInfoMUS = indexInfoMUS{}

type indexInfoMUS struct{}

func (indexInfoMUS) Marshal(info IndexInfo, bs []byte) (n int) {
	n = ord.String.Marshal(info.Name, bs)
	n += ord.String.Marshal(info.Model, bs[n:])
	n += varint.Int.Marshal(info.Dimension, bs[n:])
	return n
}

func (indexInfoMUS) Unmarshal(bs []byte) (info IndexInfo, n int, err error) {
	info.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return info, n, err
	}

	var n1 int
	info.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return info, n, err
	}

	info.Dimension, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return info, n, err
}

func (indexInfoMUS) Size(info IndexInfo) int {
	return ord.String.Size(info.Name) + ord.String.Size(info.Model) + varint.Int.Size(info.Dimension)
}
