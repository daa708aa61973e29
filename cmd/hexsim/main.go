// Command hexsim generates maps, plays bot games and replays stored sessions.
package main

func main() {
	Execute()
}
