package sui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
)

// ErrObjectNotFound is returned when the fullnode has no such object.
var ErrObjectNotFound = errors.New("sui object not found")

// Owner kinds as reported by sui_getObject.
const (
	OwnerAddress   = "AddressOwner"
	OwnerObject    = "ObjectOwner"
	OwnerShared    = "Shared"
	OwnerImmutable = "Immutable"
)

// jsonUint64 accepts both JSON numbers and decimal strings.
type jsonUint64 uint64

func (u *jsonUint64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u64 %s: %w", string(b), err)
	}
	*u = jsonUint64(v)
	return nil
}

// ObjectOwner describes who owns an object.
type ObjectOwner struct {
	Kind                 string
	Address              string
	InitialSharedVersion uint64
}

func (o *ObjectOwner) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.Kind = s
		return nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}
	for kind, raw := range m {
		o.Kind = kind
		switch kind {
		case OwnerAddress, OwnerObject:
			if err := json.Unmarshal(raw, &o.Address); err != nil {
				return fmt.Errorf("invalid %s: %w", kind, err)
			}
		case OwnerShared:
			var shared struct {
				InitialSharedVersion jsonUint64 `json:"initial_shared_version"`
			}
			if err := json.Unmarshal(raw, &shared); err != nil {
				return fmt.Errorf("invalid shared owner: %w", err)
			}
			o.InitialSharedVersion = uint64(shared.InitialSharedVersion)
		}
		return nil
	}
	return fmt.Errorf("empty owner")
}

// Object is the subset of sui_getObject output this service reads.
type Object struct {
	ObjectID string
	Version  uint64
	Digest   string
	Type     string
	Owner    ObjectOwner
	Fields   map[string]json.RawMessage
}

type getObjectResponse struct {
	Data *struct {
		ObjectID string      `json:"objectId"`
		Version  jsonUint64  `json:"version"`
		Digest   string      `json:"digest"`
		Type     string      `json:"type"`
		Owner    ObjectOwner `json:"owner"`
		Content  *struct {
			DataType string                     `json:"dataType"`
			Type     string                     `json:"type"`
			Fields   map[string]json.RawMessage `json:"fields"`
		} `json:"content"`
	} `json:"data"`
	Error *struct {
		Code     string `json:"code"`
		ObjectID string `json:"object_id"`
	} `json:"error"`
}

// GetObject fetches an object with its owner and Move fields.
func (c *Client) GetObject(ctx context.Context, objectID string) (*Object, error) {
	id, err := NormalizeAddress(objectID)
	if err != nil {
		return nil, fmt.Errorf("invalid object id: %w", err)
	}

	var resp getObjectResponse
	params := []any{id, map[string]bool{"showOwner": true, "showContent": true, "showType": true}}
	if err := c.Call(ctx, "sui_getObject", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if resp.Error.Code == "notExists" || resp.Error.Code == "deleted" {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
		}
		return nil, fmt.Errorf("sui_getObject %s: %s", id, resp.Error.Code)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}

	obj := &Object{
		ObjectID: resp.Data.ObjectID,
		Version:  uint64(resp.Data.Version),
		Digest:   resp.Data.Digest,
		Type:     resp.Data.Type,
		Owner:    resp.Data.Owner,
	}
	if resp.Data.Content != nil {
		obj.Fields = resp.Data.Content.Fields
		if obj.Type == "" {
			obj.Type = resp.Data.Content.Type
		}
	}
	return obj, nil
}

// CallArg converts the object into a transaction input.
func (o *Object) CallArg(mutable bool) (CallArg, error) {
	id, err := ParseAddress(o.ObjectID)
	if err != nil {
		return CallArg{}, err
	}

	switch o.Owner.Kind {
	case OwnerShared:
		return CallArg{Object: &ObjectArg{
			ID:                   id,
			Shared:               true,
			InitialSharedVersion: o.Owner.InitialSharedVersion,
			Mutable:              mutable,
		}}, nil
	case OwnerAddress, OwnerObject, OwnerImmutable:
		digest, err := base58.Decode(o.Digest)
		if err != nil {
			return CallArg{}, fmt.Errorf("invalid object digest %q: %w", o.Digest, err)
		}
		return CallArg{Object: &ObjectArg{
			ID:      id,
			Version: o.Version,
			Digest:  digest,
		}}, nil
	default:
		return CallArg{}, fmt.Errorf("unsupported owner kind %q", o.Owner.Kind)
	}
}

// StringField returns a string-valued Move field.
func (o *Object) StringField(name string) (string, bool) {
	raw, ok := o.Fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Uint64Field returns a u64 Move field (rendered as a decimal string by the fullnode).
func (o *Object) Uint64Field(name string) (uint64, bool) {
	raw, ok := o.Fields[name]
	if !ok {
		return 0, false
	}
	var v jsonUint64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return uint64(v), true
}
