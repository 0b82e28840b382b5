package direntry

import (
	"os"
)

// Protection bits. The low four bits deny an operation when set, the others
// grant a property when set.
const (
	ProtDelete  uint32 = 1 << 0
	ProtExecute uint32 = 1 << 1
	ProtWrite   uint32 = 1 << 2
	ProtRead    uint32 = 1 << 3
	ProtArchive uint32 = 1 << 4
	ProtPure    uint32 = 1 << 5
	ProtScript  uint32 = 1 << 6
	ProtHold    uint32 = 1 << 7

	activeLowMask = ProtRead | ProtWrite | ProtExecute | ProtDelete
)

var protectionFlags = []struct {
	bit    uint32
	letter byte
}{
	{ProtHold, 'h'},
	{ProtScript, 's'},
	{ProtPure, 'p'},
	{ProtArchive, 'a'},
	{ProtRead, 'r'},
	{ProtWrite, 'w'},
	{ProtExecute, 'e'},
	{ProtDelete, 'd'},
}

// ProtectionString renders the protection bits as `hsparwed`, with a `-` for
// each flag that isn't in effect.
func ProtectionString(prot uint32) string {
	str := make([]byte, len(protectionFlags))
	for i, flag := range protectionFlags {
		set := prot&flag.bit != 0
		if flag.bit&activeLowMask != 0 {
			set = !set
		}

		if set {
			str[i] = flag.letter
		} else {
			str[i] = '-'
		}
	}
	return string(str)
}

// ProtectionFromMode converts the owner permissions of a local file mode into
// remote protection bits.
func ProtectionFromMode(mode os.FileMode) uint32 {
	var prot uint32
	if mode&0400 == 0 {
		prot |= ProtRead
	}
	if mode&0200 == 0 {
		prot |= ProtWrite | ProtDelete
	}
	if mode&0100 == 0 && !mode.IsDir() {
		prot |= ProtExecute
	}
	return prot
}
