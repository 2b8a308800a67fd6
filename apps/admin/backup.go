package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
)

func (cli *commandLine) exportBackup(out string) error {
	payload, err := cli.backup.Export()
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println(payload)
		return nil
	}
	if err = ioutil.WriteFile(out, []byte(payload), os.FileMode(0644)); err != nil {
		return err
	}
	fmt.Printf("backup written to %s\n", out)
	return nil
}

func (cli *commandLine) importBackup(in string) error {
	payload, err := ioutil.ReadFile(in)
	if err != nil {
		return err
	}
	imported, err := cli.backup.Import(string(payload))
	if err != nil {
		return err
	}
	if !imported {
		return errors.New("invalid backup file; nothing was imported")
	}
	fmt.Println("backup imported")
	return nil
}
