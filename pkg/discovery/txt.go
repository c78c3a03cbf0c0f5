package discovery

import (
	"fmt"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT creates TXT records for an endpoint announcement.
func EncodeTXT(info *AnnounceInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyPath] = info.Path

	if info.Version != "" {
		txt[TXTKeyVersion] = info.Version
	}
	if info.Name != "" {
		txt[TXTKeyName] = info.Name
	}
	if info.TLS {
		txt[TXTKeyTLS] = "1"
	}

	return txt
}

// DecodeTXT parses TXT records from an endpoint announcement.
func DecodeTXT(txt TXTRecordMap) (*AnnounceInfo, error) {
	info := &AnnounceInfo{}

	var ok bool
	info.Path, ok = txt[TXTKeyPath]
	if !ok || info.Path == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyPath)
	}
	if !strings.HasPrefix(info.Path, "/") {
		return nil, fmt.Errorf("%w: path must start with /", ErrInvalidTXTRecord)
	}

	info.Version = txt[TXTKeyVersion]
	info.Name = txt[TXTKeyName]
	info.TLS = txt[TXTKeyTLS] == "1"

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, the format mDNS libraries expect.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a
// TXTRecordMap. Keys without a value decode as empty strings.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			txt[parts[0]] = ""
		}
	}
	return txt
}
