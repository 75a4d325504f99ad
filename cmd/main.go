package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/urfave/cli"

	"github.com/5l1v3r1/strongswan/internal/logger"
	"github.com/5l1v3r1/strongswan/pkg/factory"
	"github.com/5l1v3r1/strongswan/pkg/service"
	"github.com/free5gc/util/version"
)

func main() {
	defer func() {
		if p := recover(); p != nil {
			// Print stack for panic to log. Fatalf() will let program exit.
			logger.AppLog.Fatalf("panic: %v\n%s", p, string(debug.Stack()))
		}
	}()

	app := cli.NewApp()
	app.Name = "ikemsg"
	app.Usage = "IKEv2 message decoding and building tool"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "Load configuration from `FILE`"},
		cli.StringFlag{Name: "log, l", Usage: "Output NF log to `FILE`"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "decode",
			Usage: "Decode a raw IKE datagram",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in, i", Usage: "Read the datagram from `FILE`"},
				cli.StringFlag{Name: "hex", Usage: "Read the datagram from a hex `STRING`"},
			},
			Action: decodeAction,
		},
		{
			Name:  "build",
			Usage: "Build a sample IKE_SA_INIT request",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "out, o", Usage: "Write the datagram to `FILE`"},
			},
			Action: buildAction,
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.AppLog.Errorf("ikemsg Run Error: %v\n", err)
	}
}

func initialize(c *cli.Context) (*service.IkemsgApp, error) {
	if err := initLogFile(c.GlobalString("log")); err != nil {
		logger.AppLog.Errorf("%+v", err)
		return nil, err
	}

	cfgPath := c.GlobalString("config")
	if cfgPath == "" {
		cfgPath = factory.IkemsgDefaultConfigPath
	}

	if err := factory.InitConfigFactory(cfgPath); err != nil {
		logger.CfgLog.Errorf("%+v", err)
		return nil, fmt.Errorf("Failed to initialize !!")
	}

	if _, err := factory.IkemsgConfig.Validate(); err != nil {
		switch errType := err.(type) {
		case govalidator.Errors:
			validErrs := err.(govalidator.Errors).Errors()
			for _, validErr := range validErrs {
				logger.CfgLog.Errorf("%+v", validErr)
			}
		default:
			logger.CfgLog.Errorf("%+v", errType)
		}
		logger.CfgLog.Errorf("[-- PLEASE REFER TO SAMPLE CONFIG FILE COMMENTS --]")
		return nil, fmt.Errorf("Failed to initialize !!")
	}

	if err := factory.CheckConfigVersion(); err != nil {
		logger.CfgLog.Errorf("%+v", err)
		return nil, err
	}

	logger.AppLog.Infoln(c.App.Name)
	logger.AppLog.Infoln("ikemsg version: ", version.GetVersion())

	return service.NewApp(&factory.IkemsgConfig)
}

func decodeAction(c *cli.Context) error {
	ikemsg, err := initialize(c)
	if err != nil {
		return err
	}

	var rawData []byte
	switch {
	case c.String("in") != "":
		if rawData, err = ioutil.ReadFile(c.String("in")); err != nil {
			return err
		}
	case c.String("hex") != "":
		if rawData, err = hex.DecodeString(strings.TrimSpace(c.String("hex"))); err != nil {
			return err
		}
	default:
		return fmt.Errorf("either --in or --hex is required")
	}

	if _, err := ikemsg.Decode(rawData); err != nil {
		logger.AppLog.Errorf("Decode failed: %+v", err)
		return err
	}

	return nil
}

func buildAction(c *cli.Context) error {
	ikemsg, err := initialize(c)
	if err != nil {
		return err
	}

	rawData, err := ikemsg.Build()
	if err != nil {
		logger.AppLog.Errorf("Build failed: %+v", err)
		return err
	}

	if outPath := c.String("out"); outPath != "" {
		return ioutil.WriteFile(outPath, rawData, 0o644)
	}

	fmt.Println(hex.EncodeToString(rawData))
	return nil
}

func initLogFile(logNfPath string) error {
	if err := logger.LogFileHook(logNfPath); err != nil {
		return err
	}
	return nil
}
