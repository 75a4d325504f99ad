/*
 * IKE Message Tool Configuration Factory
 */

package factory

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/5l1v3r1/strongswan/internal/logger"
)

const IkemsgDefaultConfigPath = "./config/ikemsg.yaml"

var IkemsgConfig Config

func InitConfigFactory(f string) error {
	if content, err := ioutil.ReadFile(f); err != nil {
		return err
	} else {
		IkemsgConfig = Config{}

		if yamlErr := yaml.Unmarshal(content, &IkemsgConfig); yamlErr != nil {
			return yamlErr
		}
	}

	return nil
}

func CheckConfigVersion() error {
	currentVersion := IkemsgConfig.GetVersion()

	if currentVersion != IkemsgExpectedConfigVersion {
		return fmt.Errorf("config version is [%s], but expected is [%s].",
			currentVersion, IkemsgExpectedConfigVersion)
	}

	logger.CfgLog.Infof("config version [%s]", currentVersion)

	return nil
}
