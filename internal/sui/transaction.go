package sui

import "fmt"

// Enum variant indices from the Sui transaction schema.
const (
	txKindProgrammable = 0

	callArgPure   = 0
	callArgObject = 1

	objectArgImmOrOwned = 0
	objectArgShared     = 1

	commandMoveCall = 0

	argumentInput = 1
)

// ObjectArg references an on-chain object as a transaction input.
type ObjectArg struct {
	ID                   Address
	Shared               bool
	InitialSharedVersion uint64
	Mutable              bool

	// Owned and immutable objects are passed by full reference.
	Version uint64
	Digest  []byte
}

// CallArg is a transaction input: either pure BCS bytes or an object.
type CallArg struct {
	Pure   []byte
	Object *ObjectArg
}

// PureAddress wraps an address as a pure input.
func PureAddress(a Address) CallArg {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return CallArg{Pure: b}
}

// MoveCall calls package::module::function with inputs referenced by index.
type MoveCall struct {
	Package  Address
	Module   string
	Function string
	Inputs   []uint16
}

// ProgrammableTransaction is the subset of a PTB needed for read-only calls.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []MoveCall
}

// KindBytes returns the BCS encoding of TransactionKind::ProgrammableTransaction,
// the payload sui_devInspectTransactionBlock expects.
func (pt ProgrammableTransaction) KindBytes() ([]byte, error) {
	var w bcsWriter
	w.uleb128(txKindProgrammable)

	w.uleb128(uint64(len(pt.Inputs)))
	for i, in := range pt.Inputs {
		switch {
		case in.Object != nil:
			w.uleb128(callArgObject)
			if err := writeObjectArg(&w, in.Object); err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
		default:
			w.uleb128(callArgPure)
			w.bytesVec(in.Pure)
		}
	}

	w.uleb128(uint64(len(pt.Commands)))
	for _, cmd := range pt.Commands {
		if cmd.Module == "" || cmd.Function == "" {
			return nil, fmt.Errorf("move call requires module and function")
		}
		w.uleb128(commandMoveCall)
		w.fixed(cmd.Package[:])
		w.str(cmd.Module)
		w.str(cmd.Function)
		w.uleb128(0) // no type arguments
		w.uleb128(uint64(len(cmd.Inputs)))
		for _, idx := range cmd.Inputs {
			if int(idx) >= len(pt.Inputs) {
				return nil, fmt.Errorf("move call references input %d of %d", idx, len(pt.Inputs))
			}
			w.uleb128(argumentInput)
			w.u16(idx)
		}
	}

	return w.Bytes(), nil
}

func writeObjectArg(w *bcsWriter, o *ObjectArg) error {
	if o.Shared {
		w.uleb128(objectArgShared)
		w.fixed(o.ID[:])
		w.u64(o.InitialSharedVersion)
		w.boolean(o.Mutable)
		return nil
	}
	if len(o.Digest) != 32 {
		return fmt.Errorf("object digest must be 32 bytes, got %d", len(o.Digest))
	}
	w.uleb128(objectArgImmOrOwned)
	w.fixed(o.ID[:])
	w.u64(o.Version)
	w.bytesVec(o.Digest)
	return nil
}
