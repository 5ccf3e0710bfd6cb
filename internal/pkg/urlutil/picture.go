package urlutil

import (
	"fmt"
	"strconv"
)

// PictureSize selects a profile picture variant
type PictureSize string

const (
	PictureSmall  PictureSize = "small"
	PictureNormal PictureSize = "normal"
	PictureLarge  PictureSize = "large"
)

// PictureURL constructs the URL for a member's profile picture.
//
// Members who have not uploaded a picture get the gender-based default
// variant; members who have get the variant stored under their account ID.
//
//	unset: {base}/profile-pics/{gender}/{size}.jpg
//	set:   {base}/profile-pics/{accountID}/{size}.jpg
func PictureURL(base string, accountID int64, gender string, pictureSet bool, size PictureSize) string {
	if size == "" {
		size = PictureSmall
	}
	key := gender
	if pictureSet {
		key = strconv.FormatInt(accountID, 10)
	}
	return fmt.Sprintf("%s/profile-pics/%s/%s.jpg", base, key, size)
}
