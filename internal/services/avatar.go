package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/types"
)

// AvatarService renders an initials avatar for a new user and uploads it to
// the bucket. Every account gets a generated one at registration; there is no
// user photo upload.
type AvatarService interface {
	CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log           *logger.Logger
	bucketService BucketService
	bgColors      []color.NRGBA
	fontFace      font.Face
}

const (
	avatarRenderSize = 1024
	avatarFinalSize  = 512
)

func NewAvatarService(log *logger.Logger, bucketService BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	face, err := loadFontFace(fontPath, avatarRenderSize*0.4)
	if err != nil {
		return nil, fmt.Errorf("load avatar font: %w", err)
	}

	return &avatarService{
		log:           serviceLog,
		bucketService: bucketService,
		bgColors: []color.NRGBA{
			{R: 0x3f, G: 0x51, B: 0xb5, A: 0xff},
			{R: 0x00, G: 0x96, B: 0x88, A: 0xff},
			{R: 0xe9, G: 0x1e, B: 0x63, A: 0xff},
			{R: 0xff, G: 0x57, B: 0x22, A: 0xff},
			{R: 0x67, G: 0x3a, B: 0xb7, A: 0xff},
			{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
			{R: 0x01, G: 0x57, B: 0x9b, A: 0xff},
		},
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error {
	buf, err := as.renderInitialsAvatar(user)
	if err != nil {
		return fmt.Errorf("render avatar: %w", err)
	}

	// Versioned key so CDN caches never serve a stale image.
	key := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())
	if err := as.bucketService.UploadFile(ctx, key, "image/png", bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("upload avatar: %w", err)
	}
	user.AvatarBucketKey = key
	user.AvatarURL = as.bucketService.GetPublicURL(key)
	return nil
}

func (as *avatarService) renderInitialsAvatar(user *types.User) (*bytes.Buffer, error) {
	bg := as.bgColors[colorIndexFor(user.ID.String(), len(as.bgColors))]

	dc := gg.NewContext(avatarRenderSize, avatarRenderSize)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(initialsFor(user.DisplayName, user.Email), avatarRenderSize/2, avatarRenderSize/2, 0.5, 0.5)

	// Downscale for a smoother result than rendering at target size.
	small := image.NewRGBA(image.Rect(0, 0, avatarFinalSize, avatarFinalSize))
	draw.CatmullRom.Scale(small, small.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return nil, err
	}
	return &buf, nil
}

func initialsFor(displayName, email string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = email
	}
	if name == "" {
		return "?"
	}
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[1]))
	}
	return strings.ToUpper(firstRune(parts[0]))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func colorIndexFor(seed string, n int) int {
	var sum int
	for _, b := range []byte(seed) {
		sum += int(b)
	}
	if n == 0 {
		return 0
	}
	return sum % n
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}
