package winapi

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
)

// Action values of FILE_NOTIFY_INFORMATION.
//
// Documentation: https://learn.microsoft.com/en-us/windows/win32/api/winnt/ns-winnt-file_notify_information
const (
	FILE_ACTION_ADDED            = 0x1
	FILE_ACTION_REMOVED          = 0x2
	FILE_ACTION_MODIFIED         = 0x3
	FILE_ACTION_RENAMED_OLD_NAME = 0x4
	FILE_ACTION_RENAMED_NEW_NAME = 0x5
)

// C declaration:
//   typedef struct _FILE_NOTIFY_INFORMATION {
//     DWORD NextEntryOffset;
//     DWORD Action;
//     DWORD FileNameLength;
//     WCHAR FileName[1];
//   } FILE_NOTIFY_INFORMATION, *PFILE_NOTIFY_INFORMATION;
const fileNotifyHeaderSize = 12

// NotifyRecord is one decoded FILE_NOTIFY_INFORMATION entry. Name is relative
// to the watched directory.
type NotifyRecord struct {
	Action uint32
	Name   string
}

var ErrMalformedNotify = errors.New("malformed FILE_NOTIFY_INFORMATION buffer")

// ParseNotifyInformation decodes the chain of FILE_NOTIFY_INFORMATION entries
// written by ReadDirectoryChangesW into b.
func ParseNotifyInformation(b []byte) ([]NotifyRecord, error) {
	var recs []NotifyRecord
	for off := 0; off < len(b); {
		if len(b)-off < fileNotifyHeaderSize {
			return recs, ErrMalformedNotify
		}
		next := binary.LittleEndian.Uint32(b[off:])
		action := binary.LittleEndian.Uint32(b[off+4:])
		nameLen := int(binary.LittleEndian.Uint32(b[off+8:]))

		start := off + fileNotifyHeaderSize
		if nameLen%2 != 0 || nameLen > len(b)-start {
			return recs, ErrMalformedNotify
		}
		name := make([]uint16, nameLen/2)
		for i := range name {
			name[i] = binary.LittleEndian.Uint16(b[start+2*i:])
		}
		recs = append(recs, NotifyRecord{Action: action, Name: string(utf16.Decode(name))})

		if next == 0 {
			break
		}
		if int(next) < fileNotifyHeaderSize {
			return recs, ErrMalformedNotify
		}
		off += int(next)
	}
	return recs, nil
}
