package handler

import (
	"encoding/base64"
	"errors"

	"ziglet/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAuth struct {
	container *do.Injector
}

func (gr *groupAuth) RequestNonce(c echo.Context) error {
	ctx := c.Request().Context()

	var payload struct {
		ZigAddress string `json:"zig_address"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceAuth, err := do.Invoke[*services.ServiceAuth](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	nonce, err := serviceAuth.RequestNonce(ctx, payload.ZigAddress)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"nonce": nonce,
	}, nil)
}

func (gr *groupAuth) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var payload struct {
		ZigAddress string `json:"zig_address"`
		PubKey     struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"pub_key"`
		Signature string `json:"signature"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	pubKey, err := base64.StdEncoding.DecodeString(payload.PubKey.Value)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("malformed public key"), errorx.Validation))
	}

	signature, err := base64.StdEncoding.DecodeString(payload.Signature)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("malformed signature"), errorx.Validation))
	}

	serviceAuth, err := do.Invoke[*services.ServiceAuth](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	token, user, err := serviceAuth.VerifyAndLogin(ctx, payload.ZigAddress, pubKey, signature)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token": token,
		"user":  user,
	}, nil)
}
