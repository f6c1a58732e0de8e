package lookalike

import (
	"encoding/base64"
	"fmt"
)

func DataURL(mime string, data []byte) string {
	return DataURLFromBase64(mime, base64.StdEncoding.EncodeToString(data))
}

func DataURLFromBase64(mime, b64 string) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, b64)
}
